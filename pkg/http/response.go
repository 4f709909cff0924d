package http

import (
	"encoding/json"
	"net/http"

	apperrors "tenniscourts/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders any error as JSON. AppErrors keep their status and code,
// everything else becomes a 500 without leaking the cause.
func WriteError(w http.ResponseWriter, err error) error {
	if !apperrors.IsAppError(err) {
		return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  apperrors.CodeInternal,
		})
	}

	appErr := apperrors.AsAppError(err)
	statusCode := appErr.StatusCode()
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	message := appErr.Message
	if appErr.Code == apperrors.CodeInternal {
		message = "Internal server error"
	}

	return WriteJSON(w, statusCode, ErrorResponse{
		Error:   message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}

func WriteHTML(w http.ResponseWriter, statusCode int, body []byte) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write(body)
	return err
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
