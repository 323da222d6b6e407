package services

import (
	"errors"

	"storefront/internal/repos"
)

var (
	ErrNotFound   = repos.ErrNotFound
	ErrBusy       = errors.New("another change is still being saved")
	ErrOutOfStock = errors.New("product is out of stock")
)

// ValidationError is a missing or malformed field, reported before any I/O.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

// AuthorizationError is a privileged action attempted without admin rights.
type AuthorizationError struct {
	Action string
}

func (e *AuthorizationError) Error() string { return "not authorized to " + e.Action }

type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// UploadError means the blob store failed or returned no address.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string { return "upload " + e.Name + ": " + e.Err.Error() }
func (e *UploadError) Unwrap() error { return e.Err }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// storeErr wraps err unless it is the not-found sentinel, which callers match directly.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}
