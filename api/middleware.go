package main

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const corsAllowedMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"

// enableCORS implements the cross-origin policy in one place: only
// allow-listed origins receive CORS headers, the specific origin is echoed
// (never *) so credentials stay permitted, and preflight requests are
// answered without reaching the router.
func (app *application) enableCORS(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(app.Config.AllowedOrigins))
	for _, origin := range app.Config.AllowedOrigins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")

		origin := r.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
				if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					w.Header().Set("Access-Control-Allow-Headers", reqHeaders)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithField("method", r.Method).WithField("path", r.URL.Path).
			WithField("user-agent", r.Header.Get("user-agent")).
			WithField("latency", time.Since(start)).
			Info("http request processed")
	})
}
