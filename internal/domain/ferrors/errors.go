// Package ferrors implements the error taxonomy the assembler and its
// collaborators use to classify failure: configuration, routing, and the
// three upstream failure modes. The assembler never returns these for
// upstream problems — it degrades — but it needs the distinctions
// internally to decide retry and staleness behavior.
package ferrors

import "fmt"

// DomainError is the base type every taxonomy member embeds, following the
// same embedding shape the upstream client's own error types use.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// ConfigurationError signals a fatal, process-wide misconfiguration such as
// a missing upstream access code.
type ConfigurationError struct{ *DomainError }

func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{&DomainError{Message: message}}
}

// UnknownRouteError is returned when a requested route ID is not in the
// catalog. The assembler treats this as the sole distinguished result;
// everything else degrades instead of erroring.
type UnknownRouteError struct {
	*DomainError
	RouteID int
}

func NewUnknownRouteError(routeID int) *UnknownRouteError {
	return &UnknownRouteError{
		DomainError: &DomainError{Message: fmt.Sprintf("unknown route %d", routeID)},
		RouteID:     routeID,
	}
}

// UpstreamTransientError wraps a retryable upstream failure (network error,
// timeout, 5xx) after retries are exhausted for one feed.
type UpstreamTransientError struct {
	*DomainError
	Feed  string
	Cause error
}

func NewUpstreamTransientError(feed string, cause error) *UpstreamTransientError {
	return &UpstreamTransientError{
		DomainError: &DomainError{Message: fmt.Sprintf("upstream %s: transient failure: %v", feed, cause)},
		Feed:        feed,
		Cause:       cause,
	}
}

func (e *UpstreamTransientError) Unwrap() error { return e.Cause }

// UpstreamPermanentError wraps a non-retryable upstream failure (4xx,
// malformed payload).
type UpstreamPermanentError struct {
	*DomainError
	Feed  string
	Cause error
}

func NewUpstreamPermanentError(feed string, cause error) *UpstreamPermanentError {
	return &UpstreamPermanentError{
		DomainError: &DomainError{Message: fmt.Sprintf("upstream %s: permanent failure: %v", feed, cause)},
		Feed:        feed,
		Cause:       cause,
	}
}

func (e *UpstreamPermanentError) Unwrap() error { return e.Cause }

// ScheduleUnusableError signals that the schedule feed failed or yielded no
// usable rows for either lane, triggering the synthetic-snapshot path.
type ScheduleUnusableError struct{ *DomainError }

func NewScheduleUnusableError(message string) *ScheduleUnusableError {
	return &ScheduleUnusableError{&DomainError{Message: message}}
}

// InternalError is the catch-all for anything in assembly that is not one
// of the above; the HTTP layer maps it to a generic 500.
type InternalError struct{ *DomainError }

func NewInternalError(message string) *InternalError {
	return &InternalError{&DomainError{Message: message}}
}
