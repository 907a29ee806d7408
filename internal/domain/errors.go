package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateParticipant = errors.New("participant already registered")
	ErrUnknownSponsor       = errors.New("unknown sponsor")
	ErrEdgeNotFound         = errors.New("referral edge not found")
	ErrEdgeConflict         = errors.New("referral edge conflicts with an existing edge")
	ErrPartialPropagation   = errors.New("partial propagation failure")
	ErrPartialWrite         = errors.New("partial write failure")
)

type ErrorKind string

const (
	KindValidation           ErrorKind = "validation_error"
	KindNotFound             ErrorKind = "not_found"
	KindDuplicateParticipant ErrorKind = "duplicate_participant"
	KindUnknownSponsor       ErrorKind = "unknown_sponsor"
	KindEdgeNotFound         ErrorKind = "edge_not_found"
	KindEdgeConflict         ErrorKind = "edge_conflict"
	KindPartialPropagation   ErrorKind = "partial_propagation_failure"
	KindPartialWrite         ErrorKind = "partial_write_failure"
	KindInternal             ErrorKind = "internal"
)

// KindOf classifies an error for the boundary. Partial failures win over
// whatever caused them.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPartialPropagation):
		return KindPartialPropagation
	case errors.Is(err, ErrPartialWrite):
		return KindPartialWrite
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateParticipant):
		return KindDuplicateParticipant
	case errors.Is(err, ErrUnknownSponsor):
		return KindUnknownSponsor
	case errors.Is(err, ErrEdgeNotFound):
		return KindEdgeNotFound
	case errors.Is(err, ErrEdgeConflict):
		return KindEdgeConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	}
	return KindInternal
}

type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PropagationError reports an upline walk that stopped after some levels were
// credited. Levels 1..LastCompletedLevel are committed.
type PropagationError struct {
	Address            string
	LastCompletedLevel int
	Ancestor           string
	Err                error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("propagation for %s stopped after level %d (ancestor %s): %v",
		e.Address, e.LastCompletedLevel, e.Ancestor, e.Err)
}

func (e *PropagationError) Unwrap() []error { return []error{ErrPartialPropagation, e.Err} }

// PartialWriteError reports a multi-step write where Step failed after the
// earlier steps committed.
type PartialWriteError struct {
	Operation string
	Step      string
	RecordID  string
	// Address is the participant whose aggregate was left behind
	Address string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: step %s failed for record %s: %v", e.Operation, e.Step, e.RecordID, e.Err)
}

func (e *PartialWriteError) Unwrap() []error { return []error{ErrPartialWrite, e.Err} }
