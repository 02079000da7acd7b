package api

import (
	"crypto/subtle"
	"net/http"
)

// BasicAuth guards the API routes with a single shared credential pair.
func BasicAuth(user, pass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, gotPass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) != 1 ||
				subtle.ConstantTimeCompare([]byte(gotPass), []byte(pass)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="CCD Process Capture"`)
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing credentials")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
