/*
errors.go - Centralized error types for the capacity engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Packages wrap these with context (fmt.Errorf("...: %w", err)) and the
  API layer maps them to HTTP status codes through the helpers below.

ERROR CATEGORIES:
  1. Validation errors - Bad dates, inverted ranges, unknown intervals
  2. Lookup errors     - Unknown resource or project
  3. Upstream errors   - A data fetch for one resource failed

FAILURE ISOLATION:
  UpstreamFetchError carries the resource id so the rollup composer can
  drop that one resource from a portfolio or project view and keep going.

SEE ALSO:
  - capacity/engine.go: Raises InvalidRangeError, ResourceNotFoundError
  - rollup/pool.go: Swallows per-resource UpstreamFetchError
  - api/handlers.go: statusFor maps errors to HTTP codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a period's end precedes its start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidInterval is returned for an interval other than Weekly, Monthly or empty.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrValidation is returned when a request field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrResourceNotFound is returned when a referenced resource doesn't exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrProjectNotFound is returned when a referenced project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrAllocationNotFound is returned when deleting an unknown allocation.
	ErrAllocationNotFound = errors.New("allocation not found")

	// ErrUpstreamFetch is returned when loading a resource's rows fails.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError names the offending range.
type InvalidRangeError struct {
	Field string
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid %s: end %s is before start %s", e.Field, e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

// ResourceNotFoundError identifies the missing resource.
type ResourceNotFoundError struct {
	ResourceID ResourceID
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %d not found", e.ResourceID)
}

func (e *ResourceNotFoundError) Unwrap() error {
	return ErrResourceNotFound
}

// UpstreamFetchError wraps a failed read for one resource.
// errors.Is matches both ErrUpstreamFetch and the underlying cause.
type UpstreamFetchError struct {
	ResourceID ResourceID
	Op         string // e.g., "allocations", "timeoff", "actuals"
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch %s for resource %d: %v", e.Op, e.ResourceID, e.Err)
}

func (e *UpstreamFetchError) Unwrap() []error {
	return []error{ErrUpstreamFetch, e.Err}
}

// FieldError reports one invalid request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrAllocationNotFound)
}
