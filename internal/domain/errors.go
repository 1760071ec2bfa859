package domain

import (
	"errors"
	"fmt"
)

// ValidationError indicates a malformed request. Surfaced immediately as a
// client error, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuthError indicates the request has no resolvable caller identity.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

// IsAuth returns true if the error is an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// NotFoundError indicates a run or artifact is absent or not owned by the
// caller. Both causes render identically so existence never leaks across
// tenants.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// BudgetExceededError is returned when a debit would breach the hard cap.
// The tracked spend is left unchanged by the rejected debit.
type BudgetExceededError struct {
	HardCapUsd float64
	SpentUsd   float64
	Amount     float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("budget exceeded: spent %.4f + debit %.4f > cap %.4f",
		e.SpentUsd, e.Amount, e.HardCapUsd)
}

// IsBudgetExceeded returns true if the error is a BudgetExceededError.
// Uses errors.As to handle wrapped errors.
func IsBudgetExceeded(err error) bool {
	var be *BudgetExceededError
	return errors.As(err, &be)
}

// AgentError wraps a failure raised by an agent capability. The
// orchestrator converts it into a failed run rather than propagating.
type AgentError struct {
	Agent string
	Err   error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s failed: %v", e.Agent, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// IsAgentError returns true if the error is an AgentError.
func IsAgentError(err error) bool {
	var ae *AgentError
	return errors.As(err, &ae)
}
