package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sfines/sdd-process-example/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeInvalidFormula          = "INVALID_FORMULA"
	CodeRoomNotFound            = "ROOM_NOT_FOUND"
	CodeRoomFull                = "ROOM_FULL"
	CodeCodeGenerationExhausted = "CODE_GENERATION_EXHAUSTED"
	CodeInternalError           = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Caller errors keep their
// message. Operational failures such as code exhaustion keep their code but
// get a generic message; anything else is reported as internal.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch model.KindOf(err) {
	case model.KindValidation:
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case model.KindFormula:
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidFormula, err.Error()}}
	case model.KindNotFound:
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, err.Error()}}
	case model.KindCapacityExceeded:
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, err.Error()}}
	case model.KindCodeGenerationExhausted:
		return &httpError{http.StatusServiceUnavailable, APIError{CodeCodeGenerationExhausted, "Failed to create room"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
