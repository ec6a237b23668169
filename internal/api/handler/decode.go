package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps every JSON request body
const maxBodyBytes = 64 << 10

var errBodyTooLarge = badRequest("Request body too large")

// decodeJSON reads a single JSON value from the request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return errInvalidBody
	}
	return nil
}
