package middleware

import (
	"net/http"
	"strings"
)

// CaseInsensitive lowercases the URL path before routing, so /API/LANES/A1
// and /api/lanes/a1 reach the same handler.
func CaseInsensitive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.ToLower(r.URL.Path)
		if r.URL.RawPath != "" {
			r.URL.RawPath = strings.ToLower(r.URL.RawPath)
		}
		next.ServeHTTP(w, r)
	})
}
