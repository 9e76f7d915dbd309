package reports

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/export"
	"github.com/de-tools/sales-atlas/pkg/handlers/respond"
	"github.com/de-tools/sales-atlas/pkg/services/ledger"
	"github.com/de-tools/sales-atlas/pkg/services/reporting"
	"github.com/rs/zerolog"
)

type Handler struct {
	reports reporting.Service
	ledger  ledger.Service
	now     func() time.Time
}

func NewHandler(reports reporting.Service, transactions ledger.Service) *Handler {
	return &Handler{reports: reports, ledger: transactions, now: time.Now}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	period := r.URL.Query().Get("period")

	report, err := h.reports.PeriodSummary(r.Context(), businessID, period)
	if err != nil {
		respond.Internal(w, r, err, "failed to summarise period")
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapPeriodReportDomainToApi(report))
}

// Download streams every transaction of the business as an xlsx workbook.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := h.ledger.ListTransactions(ctx, businessID, nil, nil)
	if err != nil {
		respond.Internal(w, r, err, "failed to load transactions for export")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTransactions(&buf, txns); err != nil {
		respond.Internal(w, r, err, "failed to encode export")
		return
	}

	name := export.FileName(businessID, h.now())
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("file", name).
			Msg("failed to write export")
	}
}
