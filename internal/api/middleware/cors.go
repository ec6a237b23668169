package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows cross-origin requests from origins whose host matches one of
// hostPatterns, the same host patterns the websocket gateway accepts.
// A pattern may hold one "*" wildcard; "*" alone allows any origin.
func CORS(hostPatterns []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   AllowedOrigins(hostPatterns),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           600,
	})
}

// AllowedOrigins expands host patterns into the scheme-qualified origins
// matched by the CORS handler
func AllowedOrigins(hostPatterns []string) []string {
	origins := make([]string, 0, 2*len(hostPatterns))
	for _, p := range hostPatterns {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "":
			continue
		case "*":
			return []string{"*"}
		}
		origins = append(origins, "http://"+p, "https://"+p)
	}
	return origins
}
