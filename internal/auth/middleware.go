package auth

import (
	"log/slog"
	"net/http"

	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

// Middleware gates a route behind a verified admin session.
type Middleware func(http.Handler) http.Handler

// RequireSession rejects requests without a valid, non-expired session
// cookie. Absence of the cookie is treated as an anonymous request.
func RequireSession(logger *slog.Logger, service *Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			ok, err := service.Verify(r.Context(), cookie.Value)
			if err != nil {
				logger.Error("verify session", slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
