package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"drive/internal/httputil"
)

// Recovery turns a handler panic into a 500 problem response. Aborted
// handlers (http.ErrAbortHandler) are re-panicked so net/http drops the
// connection as the handler intended.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				attrs := []any{
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"route", r.Pattern,
				}
				if actor, ok := httputil.ActorFromContext(r.Context()); ok {
					attrs = append(attrs, "actor_id", actor.ID)
				}
				logger.Error("handler panicked", append(attrs, "stack", string(debug.Stack()))...)

				httputil.RespondProblem(w, http.StatusInternalServerError, httputil.ReasonInternal, "internal server error", nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
