/*
Package recordstore is a minimal object-persistence layer for an interactive
command shell.

It keeps a working set of typed records in memory, gives each one a unique
identity and persists the whole set to a single flat JSON file (or, optionally,
a DynamoDB table).

Key Features:
  - Records with an immutable id, creation and modification timestamps and a
    free-form, insertion-ordered attribute bag
  - A closed catalog of variants (BaseModel, User, State, City, Amenity, Place,
    Review) used for dispatch on reload
  - Save-all persistence: every save rewrites the complete set
  - All-or-nothing reload with semantic error types
  - Layered configuration (YAML, .env, environment) and slog logging

Basic Usage:

	cfg, _ := config.Load("", ".env")
	reg, err := recordstore.Open(ctx, cfg, logger)
	if err != nil {
	    return err
	}
	if err := reg.Reload(ctx); err != nil {
	    return err
	}

	user, _ := reg.Create("User")
	_ = user.Set("email", "ada@example.com")
	_ = user.Save(ctx)

The interactive shell lives in package console and the cmd/hbnb binary.
*/
package recordstore
