package testutil

import (
	"net/http"
	"time"

	"bhulekh/internal/domain"
	"bhulekh/pkg/requestcontext"
)

// WithActor places an authenticated actor on the request context, simulating
// what the session middleware does.
func WithActor(req *http.Request, actor domain.User) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithTime pins the request-scoped clock so handlers and services observe a
// deterministic now.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
