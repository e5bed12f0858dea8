package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Read and write timeouts stay generous because
// document uploads and CSV exports move whole files through single requests;
// per-route deadlines come from the router's timeout middleware instead.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}
}
