package models

// ErrorResponse is the envelope every failed request is answered with.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
