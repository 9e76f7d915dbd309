package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/handlers/respond"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/ledger"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Handler struct {
	ledger ledger.Service
}

func NewHandler(service ledger.Service) *Handler {
	return &Handler{ledger: service}
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	in, err := newTransaction(req)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := h.ledger.RecordTransaction(r.Context(), in)
	switch {
	case errors.Is(err, ledger.ErrInvalidTransaction), errors.Is(err, ledger.ErrInsufficientStock):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ledger.ErrProductNotFound):
		respond.Error(w, r, http.StatusNotFound, err.Error())
		return
	case err != nil:
		respond.Internal(w, r, err, "failed to record transaction")
		return
	}
	respond.JSON(w, r, http.StatusCreated, adapters.MapTransactionDomainToApi(txn))
}

func newTransaction(req api.CreateTransactionRequest) (ledger.NewTransaction, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return ledger.NewTransaction{}, fmt.Errorf("invalid businessId %q", req.BusinessID)
	}

	in := ledger.NewTransaction{
		BusinessID: businessID,
		Type:       domain.TransactionType(req.Type),
		Category:   req.Category,
		Amount:     req.Amount,
		Date:       req.Date,
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return ledger.NewTransaction{}, fmt.Errorf("quantity must be positive")
		}
		in.Quantity = *req.Quantity
	}
	if req.ProductID != nil && *req.ProductID != "" {
		productID, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return ledger.NewTransaction{}, fmt.Errorf("invalid productId %q", *req.ProductID)
		}
		in.ProductID = &productID
	}
	return in, nil
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	from, err := parseBound(query.Get("startDate"), false)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseBound(query.Get("endDate"), true)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := h.ledger.ListTransactions(r.Context(), businessID, from, to)
	if err != nil {
		respond.Internal(w, r, err, "failed to list transactions")
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapTransactionsDomainToApi(txns))
}

// parseBound accepts RFC 3339 timestamps or plain dates. A plain end date
// covers the whole day.
func parseBound(raw string, end bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	if end {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func (h *Handler) AddInventory(w http.ResponseWriter, r *http.Request) {
	var req api.AddInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid businessId %q", req.BusinessID))
		return
	}

	item, err := h.ledger.AddInventory(r.Context(), ledger.NewInventoryItem{
		BusinessID:   businessID,
		Name:         req.Name,
		Description:  req.Description,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
	})
	if errors.Is(err, ledger.ErrInvalidItem) {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respond.Internal(w, r, err, "failed to add inventory")
		return
	}
	respond.JSON(w, r, http.StatusCreated, adapters.MapInventoryDomainToApi(item))
}

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	businessID, err := respond.UUIDParam(r, "businessID")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.ledger.ListInventory(r.Context(), businessID)
	if err != nil {
		respond.Internal(w, r, err, "failed to list inventory")
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapInventoryListDomainToApi(items))
}
