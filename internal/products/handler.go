package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aroxa-cropscience/aroxa/internal/auth"
	"github.com/aroxa-cropscience/aroxa/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the product catalog.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    auth.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate auth.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers catalog routes. Listing and detail reads are public.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/products/{slug}", h.getBySlug)
	r.Group(func(r chi.Router) {
		r.Use(h.gate)
		r.Post("/products", h.create)
		r.Put("/products", h.update)
		r.Delete("/products", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filter := ListFilter{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
	}
	list, pagination, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if list == nil {
		list = []Product{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products":   list,
		"pagination": pagination,
	})
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"product": product})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateProductInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	result, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logger.Warn("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"productId":  result.Product.ID,
		"slug":       result.Slug,
		"batchNo":    result.BatchNo,
		"qrCode":     result.QRCode,
		"productUrl": result.ProductURL,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in UpdateProductInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	product, err := h.service.Update(r.Context(), in)
	if err != nil {
		h.logger.Warn("update product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "product": product})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "product id required")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Warn("delete product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "product deleted"})
}
