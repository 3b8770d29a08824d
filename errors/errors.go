/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when attempting to register something that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownVariant is returned when a variant name is outside the closed catalog
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrParse is returned when a timestamp or attribute value cannot be coerced
	ErrParse = errors.New("parse error")

	// ErrCorruptStore is returned when the backing store holds invalid content
	ErrCorruptStore = errors.New("corrupt store")

	// ErrIO is returned when the backing store cannot be read or written
	ErrIO = errors.New("i/o failure")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entry already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnknownVariantError is returned for a variant name outside the catalog
type UnknownVariantError struct {
	Name string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q", e.Name)
}

func (e *UnknownVariantError) Is(target error) bool {
	return target == ErrUnknownVariant
}

// ParseError represents a failed timestamp or value coercion
type ParseError struct {
	Field string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse field %q (value %v): %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot parse field %q (value %v)", e.Field, e.Value)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CorruptStoreError represents backing store content that cannot be loaded.
// Key is empty when the document as a whole is unreadable.
type CorruptStoreError struct {
	Source string
	Key    string
	Reason string
	Err    error
}

func (e *CorruptStoreError) Error() string {
	msg := fmt.Sprintf("corrupt store %s", e.Source)
	if e.Key != "" {
		msg += fmt.Sprintf(" at entry %q", e.Key)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptStoreError) Is(target error) bool {
	return target == ErrCorruptStore
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// IOError represents a failed read or write against the backing store
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(recordType, key string) error {
	return &NotFoundError{Type: recordType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, key string) error {
	return &AlreadyExistsError{Type: kind, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewUnknownVariantError creates a new UnknownVariantError
func NewUnknownVariantError(name string) error {
	return &UnknownVariantError{Name: name}
}

// NewParseError creates a new ParseError
func NewParseError(field string, value any, err error) error {
	return &ParseError{Field: field, Value: value, Err: err}
}

// NewCorruptStoreError creates a new CorruptStoreError
func NewCorruptStoreError(source, key, reason string, err error) error {
	return &CorruptStoreError{Source: source, Key: key, Reason: reason, Err: err}
}

// NewIOError creates a new IOError
func NewIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnknownVariant checks if an error is an unknown variant error
func IsUnknownVariant(err error) bool {
	return errors.Is(err, ErrUnknownVariant)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsCorruptStore checks if an error is a corrupt store error
func IsCorruptStore(err error) bool {
	return errors.Is(err, ErrCorruptStore)
}

// IsIOFailure checks if an error is an i/o failure
func IsIOFailure(err error) bool {
	return errors.Is(err, ErrIO)
}
