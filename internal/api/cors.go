// ABOUTME: CORS middleware for browser frontends on other origins
// ABOUTME: Answers preflight requests and echoes trusted origins

package api

import "net/http"

// originAllowed reports whether the Origin header value may receive CORS
// headers. An empty trusted set admits every origin.
func (s *Server) originAllowed(origin string) bool {
	if len(s.trustedOrigins) == 0 {
		return true
	}
	return s.trustedOrigins[origin]
}

// corsMiddleware adds CORS response headers and terminates OPTIONS
// preflight requests. It sits inside the bootstrap gate, so preflights for
// gated routes are refused with SETUP_REQUIRED like the requests they
// precede.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Public-Key")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
