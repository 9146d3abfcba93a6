package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/campuspulse/wellbeing-cli/internal/config"
)

// Gate is the perimeter middleware: an access token header or basic
// auth credentials admit the request. With nothing configured the gate
// passes everything through.
func Gate(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.AccessToken != "" && tokenMatches(r, cfg.AccessToken) {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.BasicUser != "" && cfg.BasicPass != "" {
				user, pass, ok := r.BasicAuth()
				if ok && constEq(user, cfg.BasicUser) && constEq(pass, cfg.BasicPass) {
					next.ServeHTTP(w, r)
					return
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="Protected"`)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Authentication required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// tokenMatches checks X-Access-Token and Authorization: Bearer.
func tokenMatches(r *http.Request, token string) bool {
	candidate := r.Header.Get("X-Access-Token")
	if candidate == "" {
		candidate = strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	}
	return candidate != "" && constEq(candidate, token)
}

func constEq(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
