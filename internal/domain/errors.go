package domain

import (
	"errors"
	"fmt"
)

// Listing failures. Any of these aborts the run.
var (
	ErrAuthentication    = errors.New("authentication rejected by the GitHub API")
	ErrNetwork           = errors.New("request to the GitHub API failed")
	ErrMalformedResponse = errors.New("malformed response from the GitHub API")
)

// Per-repository failures. These never abort the run.
var (
	ErrCloneConflict   = errors.New("target directory already contains a clone")
	ErrCloneFailed     = errors.New("clone failed")
	ErrRemoteExists    = errors.New("remote already exists")
	ErrRemoteAddFailed = errors.New("adding remote failed")
)

// OperationError represents a failure of one operation on one repository.
type OperationError struct {
	Op   string // The operation being performed
	Repo string // Full name of the repository
	Err  error  // The underlying error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s", e.Op, e.Repo)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Repo, e.Err)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new OperationError
func NewOperationError(op, repo string, err error) *OperationError {
	return &OperationError{
		Op:   op,
		Repo: repo,
		Err:  err,
	}
}

// FatalCause returns the listing sentinel err wraps, or nil.
func FatalCause(err error) error {
	for _, sentinel := range []error{ErrAuthentication, ErrNetwork, ErrMalformedResponse} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

// IsFatal reports whether err is one of the listing failures.
func IsFatal(err error) bool {
	return FatalCause(err) != nil
}
