package domain

import "fmt"

// Error types for consistent error handling across the ledger.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing or invalid identity.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrInvalidState indicates the operation makes no sense for the record's
// current state (e.g. an installment plan with nothing left to schedule).
type ErrInvalidState struct {
	Message string
}

func (e *ErrInvalidState) Error() string {
	return e.Message
}

// ErrReferentialIntegrity indicates a delete was refused because other
// records still reference the target.
type ErrReferentialIntegrity struct {
	Resource string
	ID       string
	Message  string
}

func (e *ErrReferentialIntegrity) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s is still referenced by other records", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrOrphanedPlan indicates the worst case of installment creation: the
// parcel batch insert failed AND the compensating delete of the parent plan
// also failed, leaving a plan without parcels in the store.
type ErrOrphanedPlan struct {
	PlanID          string
	Cause           error
	CompensationErr error
}

func (e *ErrOrphanedPlan) Error() string {
	return fmt.Sprintf("installment plan %s orphaned: parcel insert failed (%v) and compensating delete failed (%v)",
		e.PlanID, e.Cause, e.CompensationErr)
}

func (e *ErrOrphanedPlan) Unwrap() error {
	return e.Cause
}
