package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "tenniscourts/pkg/errors"
)

// DecodeJSON decodes a request body into dst and reports malformed payloads
// as InvalidInput. An empty body is allowed when allowEmpty is set.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return apperrors.InvalidInput("Request body is required")
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return apperrors.InvalidInput("Request body is required")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.InvalidInput(fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
		}
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
