package services

import "fmt"

// The core fails precisely and distinguishably: the four error kinds below
// are what the HTTP layer maps to status codes (400, 409, 404, 412). Nothing
// in this package retries or coerces invalid input.

// ValidationError covers cross-entity school mismatches, coordinate or enum
// range violations and invalid state transitions.
type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return e.Reason }

// ConflictError covers attempts to claim something already claimed, such as
// linking a student who already has a different parent.
type ConflictError struct{ Reason string }

func (e *ConflictError) Error() string { return e.Reason }

// NotFoundError reports a missing referenced entity.
type NotFoundError struct{ Reason string }

func (e *NotFoundError) Error() string { return e.Reason }

// PreconditionError reports an unmet prerequisite, e.g. starting a trip with
// no driver assigned.
type PreconditionError struct{ Reason string }

func (e *PreconditionError) Error() string { return e.Reason }

// Fixed-message failures callers match with errors.Is.
var (
	ErrLinkMismatch   = &ValidationError{Reason: "guardian phone does not match parent contact numbers"}
	ErrAlreadyLinked  = &ConflictError{Reason: "student is already linked to a different parent"}
	ErrDriverRequired = &PreconditionError{Reason: "a driver must be assigned before the trip can leave SCHEDULED"}
	ErrRouteMismatch  = &PreconditionError{Reason: "route stop does not belong to the trip's route"}
)

func notFound(entity string, id uint) *NotFoundError {
	return &NotFoundError{Reason: fmt.Sprintf("%s %d not found", entity, id)}
}

func crossSchool(entity string) *ValidationError {
	return &ValidationError{Reason: entity + " must belong to the same school as the trip"}
}

func invalidTransition(kind, from, to string) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf("invalid %s transition %s -> %s", kind, from, to)}
}
