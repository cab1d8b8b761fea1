package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ParseError reports a request body that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "invalid JSON payload: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a decoded request that is missing required fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}

// DownstreamError reports a failed call to the workflow engine or the approval store.
// StatusCode is zero when no response was received.
type DownstreamError struct {
	Collaborator string
	StatusCode   int
	Status       string
	Err          error
}

func (e *DownstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unreachable: %v", e.Collaborator, e.Err)
	}
	return fmt.Sprintf("%s responded %s", e.Collaborator, e.Status)
}
func (e *DownstreamError) Unwrap() error { return e.Err }

// ConflictError reports a decision on an approval that was already decided.
type ConflictError struct {
	ApprovalID string
	Status     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("approval %s already %s", e.ApprovalID, e.Status)
}

// StatusCodeFor picks the HTTP status the boundary answers with for err.
func StatusCodeFor(err error) int {
	var pe *ParseError
	var ve *ValidationError
	var ce *ConflictError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &pe), errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
