package domain

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable error class exposed alongside the
// human-readable message.
type Kind string

const (
	KindNotFound             Kind = "NOT_FOUND"
	KindInvalidState         Kind = "INVALID_STATE"
	KindInsufficientCapacity Kind = "INSUFFICIENT_CAPACITY"
	KindAccessDenied         Kind = "ACCESS_DENIED"
	KindStorage              Kind = "STORAGE_FAILURE"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// InvalidStateError covers inactive/banned vehicles, unauthorized
// destinations, and malformed reorder permutations.
type InvalidStateError struct {
	Msg string
	Err error
}

func (e InvalidStateError) Error() string {
	if e.Msg == "" {
		return "invalid state"
	}
	return e.Msg
}

func (e InvalidStateError) Unwrap() error { return e.Err }

type InsufficientCapacityError struct {
	Requested int
	Available int
	Msg       string
}

func (e InsufficientCapacityError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("insufficient capacity: requested %d seats, %d available", e.Requested, e.Available)
}

type AccessDeniedError struct {
	Msg string
}

func (e AccessDeniedError) Error() string {
	if e.Msg == "" {
		return "access denied"
	}
	return e.Msg
}

// StorageError wraps transaction/connectivity failures so the adaptor can
// tell them apart from business rejections. The original error is surfaced
// verbatim through Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("storage failure: %v", e.Err)
	}
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

// KindOf classifies err for response mapping; unrecognized errors count as
// storage failures.
func KindOf(err error) Kind {
	var nf NotFoundError
	var is InvalidStateError
	var ic InsufficientCapacityError
	var ad AccessDeniedError
	switch {
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &is):
		return KindInvalidState
	case errors.As(err, &ic):
		return KindInsufficientCapacity
	case errors.As(err, &ad):
		return KindAccessDenied
	default:
		return KindStorage
	}
}
