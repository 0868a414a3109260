package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, limiter *Limiter) (chi.Router, *Service) {
	t.Helper()
	svc := NewService(newMemorySessions(), mustHash(t, "1234"), time.Hour)
	h := NewHandler(slog.New(slog.NewTextHandler(&strings.Builder{}, nil)), svc, limiter, false)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, svc
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	router, svc := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"pin":"1234"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookieFrom(t, rec)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	ok, err := svc.Verify(req.Context(), cookie.Value)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLoginRejectsWrongPIN(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"pin":"0000"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Result().Cookies())
}

func TestLoginRejectsMissingPIN(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, 15*time.Minute)
	router, _ := newTestRouter(t, limiter)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"pin":"0000"}`))
		req.RemoteAddr = "10.0.0.9:54321"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// Even the correct PIN is rejected while the window is active.
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"pin":"1234"}`))
	req.RemoteAddr = "10.0.0.9:54321"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	// Without a cookie.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/verify", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Login then verify with the issued cookie.
	login := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"pin":"1234"}`))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, login)
	cookie := sessionCookieFrom(t, loginRec)

	verify := httptest.NewRequest(http.MethodGet, "/sessions/verify", nil)
	verify.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, verify)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"authenticated":true`)
}

func TestLogoutRevokesAndClearsCookie(t *testing.T) {
	router, svc := newTestRouter(t, nil)

	login := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"pin":"1234"}`))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, login)
	cookie := sessionCookieFrom(t, loginRec)

	logout := httptest.NewRequest(http.MethodDelete, "/sessions", nil)
	logout.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, logout)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := sessionCookieFrom(t, rec)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)

	ok, err := svc.Verify(logout.Context(), cookie.Value)
	require.NoError(t, err)
	require.False(t, ok)

	// Logging out again without a session still succeeds.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSessionMiddleware(t *testing.T) {
	svc := NewService(newMemorySessions(), mustHash(t, "1234"), time.Hour)
	gate := RequireSession(slog.New(slog.NewTextHandler(&strings.Builder{}, nil)), svc)

	protected := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// No cookie.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Stale token.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "deadbeef"})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Live session passes through.
	sess, err := svc.Issue(req.Context(), "1234")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.Token})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
