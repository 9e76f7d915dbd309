package analytics

import (
	"errors"
	"net/http"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/handlers/respond"
	"github.com/de-tools/sales-atlas/pkg/services/reporting"
	"github.com/rs/zerolog"
)

type Handler struct {
	reports reporting.Service
}

func NewHandler(reports reporting.Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	forecast, err := h.reports.Forecast(r.Context(), businessID)
	if err != nil {
		respond.Internal(w, r, err, "failed to forecast sales")
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapForecastDomainToApi(forecast))
}

func (h *Handler) GetNetSales(w http.ResponseWriter, r *http.Request) {
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rangeName := r.URL.Query().Get("range")

	series, err := h.reports.NetSales(r.Context(), businessID, rangeName)
	if err != nil {
		respond.Internal(w, r, err, "failed to aggregate net sales")
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapPeriodSalesDomainToApi(series))
}

func (h *Handler) GetTopItems(w http.ResponseWriter, r *http.Request) {
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.reports.TopItems(r.Context(), businessID)
	if err != nil {
		respond.Internal(w, r, err, "failed to rank top items")
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRankedItemsDomainToApi(items))
}

func (h *Handler) GetProductAnalytics(w http.ResponseWriter, r *http.Request) {
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	productID, err := respond.UUIDParam(r, "productID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pa, err := h.reports.ProductAnalytics(r.Context(), businessID, productID)
	if errors.Is(err, reporting.ErrProductNotFound) {
		zerolog.Ctx(r.Context()).Debug().
			Str("product_id", productID.String()).
			Msg("product not found")
		respond.Error(w, r, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respond.Internal(w, r, err, "failed to build product analytics")
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapProductAnalyticsDomainToApi(pa))
}

func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := h.reports.InventoryOverview(r.Context(), businessID)
	if err != nil {
		respond.Internal(w, r, err, "failed to analyse inventory")
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapInventoryOverviewDomainToApi(overview))
}
