package response

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fkhayef/membership/internal/apperr"
)

// APIResponse is the standard response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Location string            `json:"location,omitempty"`
}

// Meta contains list metadata
type Meta struct {
	Total  int    `json:"total,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// JSON sends a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// JSONWithMeta sends a JSON response with list metadata
func JSONWithMeta(w http.ResponseWriter, status int, data interface{}, meta *Meta) {
	write(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    meta,
	})
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

func write(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(body)
}

// Common error responses
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, "FORBIDDEN", message)
}

func NotAcceptable(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotAcceptable, "NOT_ACCEPTABLE", message)
}

// ValidationFailed sends field level messages for rejected input
func ValidationFailed(w http.ResponseWriter, fields map[string]string) {
	write(w, http.StatusUnprocessableEntity, APIResponse{
		Error: &APIError{
			Code:    "VALIDATION_FAILED",
			Message: "Validation failed",
			Fields:  fields,
		},
	})
}

// PreconditionFailed tells the client where to go and why
func PreconditionFailed(w http.ResponseWriter, message, location string) {
	write(w, http.StatusUnprocessableEntity, APIResponse{
		Error: &APIError{
			Code:     "PRECONDITION_FAILED",
			Message:  message,
			Location: location,
		},
	})
}

// Fail maps a classified domain error to its response. Unclassified errors
// are logged and answered with fallback.
func Fail(w http.ResponseWriter, err error, fallback string) {
	e, ok := apperr.As(err)
	if !ok {
		log.Printf("%s: %v", fallback, err)
		InternalError(w, fallback)
		return
	}

	switch e.Kind {
	case apperr.KindNotFound:
		NotFound(w, e.Message)
	case apperr.KindForbidden:
		Forbidden(w, e.Message)
	case apperr.KindValidation:
		ValidationFailed(w, e.Fields)
	case apperr.KindPrecondition:
		PreconditionFailed(w, e.Message, e.Location)
	default:
		log.Printf("%s: %v", fallback, err)
		InternalError(w, fallback)
	}
}
