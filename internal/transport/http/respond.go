// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services and encode; business rules stay out of this package.
package httptransport

import (
	"encoding/json"
	"net/http"

	"bhulekh/pkg/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates domain errors into the JSON error envelope. Only the
// client-safe message is serialized; wrapped causes stay in operational logs.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	writeJSON(w, apperrors.ToHTTPStatus(code), map[string]string{
		"error": apperrors.MessageOf(err),
	})
}
