package auth

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the admin session lifecycle.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	limiter   *Limiter
	validator *validator.Validate
	secure    bool
}

// NewHandler constructs a Handler instance. limiter may be nil when Redis is
// unavailable; login throttling is then skipped.
func NewHandler(logger *slog.Logger, service *Service, limiter *Limiter, secure bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		limiter:   limiter,
		validator: validator.New(),
		secure:    secure,
	}
}

// MountRoutes registers session routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/sessions", h.handleLogin)
	r.Delete("/sessions", h.handleLogout)
	r.Get("/sessions/verify", h.handleVerify)
}

type loginRequest struct {
	PIN string `json:"pin" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "pin is required")
		return
	}

	key := clientKey(r)
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(r.Context(), key)
		if err != nil {
			// Fail open when the limiter store is unreachable.
			h.logger.Warn("login limiter", slog.Any("error", err))
		} else if !allowed {
			httpx.RespondError(w, httpx.ErrTooManyRequests)
			return
		}
	}

	sess, err := h.service.Issue(r.Context(), req.PIN)
	if err != nil {
		if errors.Is(err, httpx.ErrInvalidCredentials) {
			if h.limiter != nil {
				if lerr := h.limiter.RecordFailure(r.Context(), key); lerr != nil {
					h.logger.Warn("record login failure", slog.Any("error", lerr))
				}
			}
			httpx.RespondError(w, err)
			return
		}
		h.logger.Error("issue session", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	if h.limiter != nil {
		if err := h.limiter.Reset(r.Context(), key); err != nil {
			h.logger.Warn("reset login limiter", slog.Any("error", err))
		}
	}

	http.SetCookie(w, h.sessionCookie(sess.Token, sess.ExpiresAt))
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if err := h.service.Revoke(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("revoke session", slog.Any("error", err))
		}
	}
	http.SetCookie(w, h.expiredCookie())
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}
	ok, err := h.service.Verify(r.Context(), cookie.Value)
	if err != nil {
		h.logger.Error("verify session", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

func (h *Handler) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  expiresAt,
	}
}

func (h *Handler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
