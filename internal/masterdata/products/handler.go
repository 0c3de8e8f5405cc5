package products

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/masterdata/warehouses"
	"github.com/stockroom/stockroom/internal/platform/httpx"
)

// WarehouseCatalog lists the warehouses a product can be filtered by or stocked in.
type WarehouseCatalog interface {
	Options(ctx context.Context) ([]warehouses.Option, error)
}

type Handler struct {
	logger     *slog.Logger
	service    *Service
	warehouses WarehouseCatalog
}

func NewHandler(logger *slog.Logger, service *Service, catalog WarehouseCatalog) *Handler {
	return &Handler{logger: logger, service: service, warehouses: catalog}
}

// MountRoutes registers inventory routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type listResponse struct {
	Products             listing.Page[ProductData] `json:"products"`
	Sort                 string                    `json:"sort"`
	Filters              map[string]string         `json:"filters"`
	FilterableWarehouses []WarehouseData           `json:"filterableWarehouses"`
}

type showResponse struct {
	Product    ProductData     `json:"product"`
	Warehouses []WarehouseData `json:"warehouses"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	req := listing.RequestFromValues(values)
	page, err := h.service.List(r.Context(), req, listing.PageFromValues(values))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	options, err := h.warehouseOptions(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Products:             listing.MapPage(page, ToData),
		Sort:                 req.SortOr("id"),
		Filters:              req.Filters,
		FilterableWarehouses: options,
	})
}

// Show answers the edit screen: the product plus every warehouse it may be stocked in.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	options, err := h.warehouseOptions(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, showResponse{Product: ToData(product), Warehouses: options})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("product created", slog.Int64("id", created.ID), slog.Int("warehouses", len(created.Warehouses)))
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": ToData(created)})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("product updated", slog.Int64("id", id))
	httpx.JSON(w, http.StatusOK, map[string]any{"data": ToData(updated)})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("product deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) warehouseOptions(ctx context.Context) ([]WarehouseData, error) {
	options, err := h.warehouses.Options(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WarehouseData, len(options))
	for i, o := range options {
		out[i] = OptionData(o)
	}
	return out, nil
}
