/*
Package errors provides semantic error types for recordstore.

Every failure the storage engine can produce has a sentinel and a typed error
that matches it through errors.Is, so the shell can map failures to distinct
messages without string matching.

Common Errors:

	var (
	    ErrNotFound       = errors.New("record not found")
	    ErrAlreadyExists  = errors.New("already exists")
	    ErrInvalidInput   = errors.New("invalid input")
	    ErrUnknownVariant = errors.New("unknown variant")
	    ErrParse          = errors.New("parse error")
	    ErrCorruptStore   = errors.New("corrupt store")
	    ErrIO             = errors.New("i/o failure")
	)

Usage:

	rec, err := reg.Get("User", id)
	if err != nil {
	    if errors.IsNotFound(err) {
	        fmt.Println("** no instance found **")
	        return
	    }
	    return err
	}

ParseError, CorruptStoreError and IOError wrap their cause, so a reload that
fails on a malformed timestamp matches both ErrCorruptStore and ErrParse.
*/
package errors
