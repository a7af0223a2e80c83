// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates a missing or invalid admin session or credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotConfigured indicates a required setting (such as the admin secret) is unset.
	ErrNotConfigured = errors.New("not configured")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnauthorizedError is returned when the caller lacks a valid admin session
// or presented the wrong credential.
type UnauthorizedError struct {
	Reason string
}

// Error implements the error interface.
func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}

	return "unauthorized"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// NewUnauthorizedError creates an unauthorized error with a caller-facing reason.
func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

// NotConfiguredError reports a feature that cannot run because the
// operator did not supply a required setting.
type NotConfiguredError struct {
	Setting string
	Reason  string
}

// Error implements the error interface.
func (e *NotConfiguredError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}

	return e.Setting + " is not configured"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotConfiguredError) Unwrap() error {
	return ErrNotConfigured
}

// NewNotConfiguredError creates a configuration error for the named setting.
func NewNotConfiguredError(setting, reason string) error {
	return &NotConfiguredError{Setting: setting, Reason: reason}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthorized checks if an error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotConfigured checks if an error is a missing-configuration error.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
