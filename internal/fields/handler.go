package fields

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aroxa-cropscience/aroxa/internal/auth"
	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the field registry.
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

// MountRoutes registers field routes. Reads are public; mutations pass
// through the session gate first.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/fields", h.list)
	r.Group(func(r chi.Router) {
		r.Use(h.gate)
		r.Post("/fields", h.create)
		r.Put("/fields/{id}", h.update)
		r.Delete("/fields/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list fields", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if list == nil {
		list = []CustomField{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"fields": list})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateFieldInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	field, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, "create field", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"field": field})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid field id")
		return
	}
	var in UpdateFieldInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	field, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.respondError(w, "update field", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"field": field})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid field id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete field", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	h.logger.Warn(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
