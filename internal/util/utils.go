package util

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/RealZimboGuy/newsflow/internal/models"
)

// DecodeJSONBody decodes the request body into T. An empty body decodes as an empty object.
func DecodeJSONBody[T any](r *http.Request) (T, error) {
	var data T
	if r.Body == nil {
		return data, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return data, &models.ParseError{Err: fmt.Errorf("read body error: %w", err)}
	}
	defer r.Body.Close()
	if len(body) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(body, &data); err != nil {
		var zero T
		return zero, &models.ParseError{Err: fmt.Errorf("json unmarshal error: %w", err)}
	}
	return data, nil
}

func DecodeJSONBodyResponse[T any](r *http.Response) (T, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read body error: %w", err)
	}
	defer r.Body.Close()

	var data T
	if err := json.Unmarshal(body, &data); err != nil {
		var zero T
		return zero, fmt.Errorf("json unmarshal error: %w", err)
	}
	return data, nil
}

func WriteJSONResponse[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, status int, message string, details string) {
	WriteJSONResponse(w, status, models.ErrorResponse{Error: message, Details: details})
}
