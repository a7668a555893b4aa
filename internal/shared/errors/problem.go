// Package errors provides RFC 7807 Problem Details for HTTP APIs.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`
	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`
	// Status is the HTTP status code for this occurrence.
	Status int `json:"status"`
	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`
	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	if p.Extensions == nil {
		p.Extensions = make(map[string]any)
	}
	p.Extensions[key] = value
	return p
}

// Common problem types as URI references.
const (
	TypeValidation          = "/problems/validation-error"
	TypeNotFound            = "/problems/not-found"
	TypeConflict            = "/problems/conflict"
	TypeInternal            = "/problems/internal-error"
	TypePlanRefusal         = "/problems/plan-refusal"
	TypeBadRequest          = "/problems/bad-request"
	TypeUpstreamRejected    = "/problems/upstream-rejected"
	TypeUpstreamUnreachable = "/problems/upstream-unreachable"
)

// Pre-defined problem templates for common scenarios.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrValidation indicates the request failed validation.
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// ErrConflict indicates a conflict with the current state.
	ErrConflict = ProblemDetail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	// ErrInternal indicates an unexpected server error.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrPlanRefusal indicates the subscription plan does not grant the
	// attempted operation.
	ErrPlanRefusal = ProblemDetail{
		Type:   TypePlanRefusal,
		Title:  "Plan Does Not Allow This",
		Status: http.StatusForbidden,
	}

	// ErrUpstreamRejected indicates the persistence backend refused the
	// mutation; local state was left untouched.
	ErrUpstreamRejected = ProblemDetail{
		Type:   TypeUpstreamRejected,
		Title:  "Backend Rejected The Operation",
		Status: http.StatusBadGateway,
	}

	// ErrUpstreamUnreachable indicates the persistence backend could not be
	// reached; the operation is safe to retry.
	ErrUpstreamUnreachable = ProblemDetail{
		Type:   TypeUpstreamUnreachable,
		Title:  "Backend Unreachable",
		Status: http.StatusServiceUnavailable,
	}
)

// NewPlanRefusalProblem creates a forbidden error naming the plan and the
// missing capability.
func NewPlanRefusalProblem(plan, capability, detail string) ProblemDetail {
	return ErrPlanRefusal.
		WithDetail(detail).
		WithExtension("plan", plan).
		WithExtension("capability", capability)
}
