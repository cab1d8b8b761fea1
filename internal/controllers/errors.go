package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/util"
)

const maxBodyBytes = 1 << 20

// decodeBody caps the request body at maxBodyBytes before decoding it.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	}
	return util.DecodeJSONBody[T](r)
}

// writeError answers with the status for err's kind. failure is the message used for 500s.
func writeError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	status := models.StatusCodeFor(err)
	message := failure
	var pe *models.ParseError
	var ve *models.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		message = "Request body too large"
	case errors.As(err, &pe):
		message = "Invalid JSON payload"
	case errors.As(err, &ve):
		message = "Missing required fields"
	case status == http.StatusConflict:
		message = "Approval already decided"
	}
	if status >= 500 {
		slog.ErrorContext(r.Context(), failure, "path", r.URL.Path, "error", err)
	}
	util.WriteErrorResponse(w, status, message, err.Error())
}

func methodNotAllowed(w http.ResponseWriter) {
	util.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
}
