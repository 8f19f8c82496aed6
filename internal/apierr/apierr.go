// Package apierr standardizes the API's error responses. Services and
// repositories return *Error values (or wrap them); the Fiber error handler
// maps each one to an HTTP status and a stable envelope:
//
//	{"error": {"code": "...", "message": "...", "details": {...}}}
//
// Unknown errors are logged server-side and surface as a generic 500 so
// internal details never leak to the caller.
package apierr

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Code is a short stable identifier for machine-readable handling.
type Code string

const (
	CodeUnauthorized      Code = "unauthorized"
	CodeValidation        Code = "validation_failed"
	CodeMissingCredential Code = "missing_credential"
	CodeMissingContext    Code = "missing_context"
	CodeNotFound          Code = "not_found"
	CodeUpstream          Code = "upstream_unavailable"
	CodeInternal          Code = "internal"
)

// Error is the single error type crossing layer boundaries.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Status maps the taxonomy to HTTP status codes.
func (e *Error) Status() int {
	switch e.Code {
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeValidation, CodeMissingCredential, CodeMissingContext:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Unauthorized signals a missing or invalid session.
func Unauthorized() *Error {
	return &Error{Code: CodeUnauthorized, Message: "authentication required"}
}

// Validation signals malformed input; details maps field name to problem.
func Validation(details map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: "invalid request parameters", Details: details}
}

// MissingCredential signals that the user has no GitHub token on file.
func MissingCredential() *Error {
	return &Error{
		Code:    CodeMissingCredential,
		Message: "no GitHub token linked to your profile",
		Details: map[string]string{"hint": "add a token via PUT /api/v1/profile"},
	}
}

// MissingContext signals an issue lookup without the required repo parameter.
func MissingContext(issueID string) *Error {
	return &Error{
		Code:    CodeMissingContext,
		Message: "repo query parameter is required to resolve an issue",
		Details: map[string]string{"example": fmt.Sprintf("/api/v1/issues/%s?repo=owner/name", issueID)},
	}
}

// NotFound signals that the upstream reports the resource absent.
func NotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found"}
}

// Upstream wraps a non-2xx response from the GitHub API.
func Upstream(status int, body string) *Error {
	return &Error{
		Code:    CodeUpstream,
		Message: fmt.Sprintf("GitHub API returned %d: %s", status, body),
	}
}

// Internal wraps an unexpected error. The cause is kept for server-side logs
// but never rendered to the caller.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", cause: cause}
}

type envelope struct {
	Error *Error `json:"error"`
}

// ErrorHandler is installed as fiber.Config.ErrorHandler. Every failure path
// renders the envelope; partial success bodies are never emitted.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == CodeInternal {
			log.Printf("[%s %s] internal error: %v", c.Method(), c.Path(), err)
		}
		return c.Status(apiErr.Status()).JSON(envelope{Error: apiErr})
	}

	// Fiber's own errors (404 route, body limit, ...) keep their status.
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(envelope{
			Error: &Error{Code: CodeInternal, Message: fiberErr.Message},
		})
	}

	log.Printf("[%s %s] unexpected error: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(envelope{
		Error: &Error{Code: CodeInternal, Message: "internal server error"},
	})
}
