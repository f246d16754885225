package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/racktower/pkg/errors"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Details []string    `json:"details,omitempty"`
}

// respondJSON writes data as a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes err with the status its code maps to.
func respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	respondJSON(w, statusFor(code), map[string]errorBody{
		"error": {Code: code, Message: errors.UserMessage(err), Details: errors.GetDetails(err)},
	})
}

func statusFor(code errors.Code) int {
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(string(code), "_NOT_FOUND"):
		return http.StatusNotFound
	case code == errors.ErrCodeMisalignedPlacement,
		code == errors.ErrCodeOutOfBounds,
		code == errors.ErrCodeSpaceOccupied:
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(string(code), "_DECLINED"), code == errors.ErrCodeModuleInUse:
		return http.StatusConflict
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// decode reads a JSON request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}
