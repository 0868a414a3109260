package inquiries

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aroxa-cropscience/aroxa/internal/auth"
)

type memoryRepo struct {
	inquiries []Inquiry
	nextID    int64
}

func (r *memoryRepo) Create(ctx context.Context, inquiry Inquiry) (Inquiry, error) {
	r.nextID++
	inquiry.ID = r.nextID
	inquiry.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	r.inquiries = append(r.inquiries, inquiry)
	return inquiry, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Inquiry, error) {
	out := make([]Inquiry, len(r.inquiries))
	copy(out, r.inquiries)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func openGate(next http.Handler) http.Handler { return next }

func newTestRouter(repo *memoryRepo, gate auth.Middleware) chi.Router {
	h := NewHandler(slog.New(slog.NewTextHandler(&strings.Builder{}, nil)), NewService(repo), gate)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestSubmitStoresInquiry(t *testing.T) {
	repo := &memoryRepo{}
	router := newTestRouter(repo, openGate)

	body := `{"name":"Ravi Kumar","email":"ravi@example.com","phone":"+91 98765 43210","subject":"Dealer pricing","message":"Please share the dealer price list."}`
	req := httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success   bool      `json:"success"`
		Reference uuid.UUID `json:"reference"`
		Message   string    `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEqual(t, uuid.Nil, resp.Reference)
	require.Contains(t, resp.Message, "Thank you for contacting us")

	require.Len(t, repo.inquiries, 1)
	stored := repo.inquiries[0]
	require.Equal(t, resp.Reference, stored.Reference)
	require.Equal(t, StatusNew, stored.Status)
	require.NotNil(t, stored.Phone)
	require.Equal(t, "+91 98765 43210", *stored.Phone)
}

func TestSubmitOptionalFieldsMayBeOmitted(t *testing.T) {
	repo := &memoryRepo{}
	router := newTestRouter(repo, openGate)

	body := `{"name":"Ravi","email":"ravi@example.com","message":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, repo.inquiries[0].Phone)
	require.Nil(t, repo.inquiries[0].Subject)
}

func TestSubmitValidationMessages(t *testing.T) {
	router := newTestRouter(&memoryRepo{}, openGate)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"email":"a@b.com","message":"hi"}`, "Name is required"},
		{"missing message", `{"name":"A","email":"a@b.com"}`, "Message is required"},
		{"bad email", `{"name":"A","email":"not-an-email","message":"hi"}`, "invalid email address"},
		{"empty body", `{}`, "is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestSubmitRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(&memoryRepo{}, openGate)

	req := httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListNewestFirst(t *testing.T) {
	repo := &memoryRepo{}
	router := newTestRouter(repo, openGate)

	for _, name := range []string{"First", "Second", "Third"} {
		body := `{"name":"` + name + `","email":"a@b.com","message":"hi"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inquiries", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Inquiries []Inquiry `json:"inquiries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Inquiries, 3)
	require.Equal(t, "Third", resp.Inquiries[0].Name)
	require.Equal(t, "First", resp.Inquiries[2].Name)
}

func TestListSitsBehindGate(t *testing.T) {
	denied := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
	router := newTestRouter(&memoryRepo{}, denied)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inquiries", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Submission stays public.
	body := `{"name":"A","email":"a@b.com","message":"hi"}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inquiries", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
}
