package inquiries

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aroxa-cropscience/aroxa/internal/auth"
	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

// Handler wires HTTP endpoints for inquiry intake.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	gate      auth.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate auth.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		gate:      gate,
	}
}

// MountRoutes registers inquiry routes. Submission is public; the listing is
// an admin read and sits behind the session gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/inquiries", h.submit)
	r.Group(func(r chi.Router) {
		r.Use(h.gate)
		r.Get("/inquiries", h.list)
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var in SubmitInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", fieldMessage(verrs[0]))
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	inquiry, err := h.service.Submit(r.Context(), in)
	if err != nil {
		h.logger.Error("submit inquiry", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"reference": inquiry.Reference,
		"message":   "Thank you for contacting us! We will get back to you soon.",
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list inquiries", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if list == nil {
		list = []Inquiry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"inquiries": list})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email address"
	default:
		return fe.Field() + " is invalid"
	}
}
