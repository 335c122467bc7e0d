// Package errors implements the routing core's error taxonomy: configuration
// errors (fatal), handler-init failures and path-step failures (recovered by
// the caller), missing-vertex and complete-routing-failure (surfaced as a
// plain error return, never a panic).
package errors

import (
	"fmt"
)

// ErrorType classifies an error by the kind of failure it represents, not by
// which package raised it.
type ErrorType string

const (
	// ErrorTypeConfiguration is fatal: duplicate handler names, unnormalized
	// MIME leakage. Registry/graph build must abort.
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"
	// ErrorTypeHandlerInit is recovered locally: the handler is skipped.
	ErrorTypeHandlerInit ErrorType = "HANDLER_INIT"
	// ErrorTypeMissingVertex reports a source or target MIME with no vertex
	// in the graph; no search is started.
	ErrorTypeMissingVertex ErrorType = "MISSING_VERTEX"
	// ErrorTypePathStep is recovered by the executor's outer loop.
	ErrorTypePathStep ErrorType = "PATH_STEP"
	// ErrorTypeRouting is surfaced to the caller: no path succeeded.
	ErrorTypeRouting ErrorType = "ROUTING_FAILURE"
	// ErrorTypeValidation covers malformed external input (cache JSON,
	// HTTP request bodies) rejected before it reaches the domain.
	ErrorTypeValidation ErrorType = "VALIDATION"
)

// Severity is informational only; it does not change control flow, but it
// gives structured log lines and metrics a consistent field to bucket on.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RoutingError is the unified error type for the core. Build one with
// NewError(...).WithResource(...).WithSeverity(...).Build().
type RoutingError struct {
	Type     ErrorType
	Code     string
	Message  string
	Resource string
	Severity Severity
	Err      error
}

func (e *RoutingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s[%s]: %s: %v", e.Type, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Type, e.Code, e.Message)
}

func (e *RoutingError) Unwrap() error {
	return e.Err
}

// Builder assembles a RoutingError fluently.
type Builder struct {
	err *RoutingError
}

// NewError starts a RoutingError builder.
func NewError(errType ErrorType, code, message string) *Builder {
	return &Builder{err: &RoutingError{Type: errType, Code: code, Message: message, Severity: SeverityMedium}}
}

func (b *Builder) WithResource(resource string) *Builder {
	b.err.Resource = resource
	return b
}

func (b *Builder) WithSeverity(sev Severity) *Builder {
	b.err.Severity = sev
	return b
}

func (b *Builder) WithCause(err error) *Builder {
	b.err.Err = err
	return b
}

func (b *Builder) Build() *RoutingError {
	return b.err
}

// Convenience constructors matching the taxonomy in the routing spec.

func Configuration(code, message string) *Builder {
	return NewError(ErrorTypeConfiguration, code, message).WithSeverity(SeverityHigh)
}

func HandlerInit(code, message string) *Builder {
	return NewError(ErrorTypeHandlerInit, code, message).WithSeverity(SeverityLow)
}

func MissingVertex(code, message string) *Builder {
	return NewError(ErrorTypeMissingVertex, code, message).WithSeverity(SeverityLow)
}

func PathStep(code, message string) *Builder {
	return NewError(ErrorTypePathStep, code, message).WithSeverity(SeverityLow)
}

func Routing(code, message string) *Builder {
	return NewError(ErrorTypeRouting, code, message).WithSeverity(SeverityMedium)
}

func Validation(code, message string) *Builder {
	return NewError(ErrorTypeValidation, code, message).WithSeverity(SeverityMedium)
}

// Is reports whether err is a *RoutingError of the given type.
func Is(err error, t ErrorType) bool {
	re, ok := err.(*RoutingError)
	return ok && re.Type == t
}
