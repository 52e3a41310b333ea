package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/denerose/VeganMealAppApi-sub001/internal/api/respond"
)

// Middleware intercepts panics from downstream handlers, logs details, and
// returns HTTP 500. The route is logged as the mux path template when one is
// available, so plan and catalog ids never end up in log fields.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				route := r.URL.Path
				if cur := mux.CurrentRoute(r); cur != nil {
					if tmpl, err := cur.GetPathTemplate(); err == nil {
						route = tmpl
					}
				}
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("route", route).
					Str("remote", r.RemoteAddr).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				respond.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
