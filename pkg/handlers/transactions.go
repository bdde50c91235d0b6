package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
)

const dayLayout = "2006-01-02"

type createTransactionsRequest struct {
	Items    []map[string]any `json:"items"`
	BatchKey string           `json:"batchKey"`
}

// CreateTransactions handles the logic for writing ledger rows directly,
// without going through a draft. A caller-supplied batchKey makes the request
// safe to retry.
func (h *Handler) CreateTransactions(w http.ResponseWriter, r *http.Request) {
	var req createTransactionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Drafts.CreateTransactions(r.Context(), ownerID(r), req.BatchKey, req.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ListTransactions handles the logic for listing the owner's ledger rows.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := storage.TransactionFilter{
		From:     query.Get("from"),
		To:       query.Get("to"),
		Category: query.Get("category"),
		Limit:    defaultListLimit,
	}
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 1 {
			writeErrorMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = int32(parsed)
	}

	transactions, err := h.Ledger.ListTransactions(r.Context(), ownerID(r), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles the logic for retrieving one ledger row.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Ledger.GetTransaction(r.Context(), ownerID(r), chi.URLParam(r, "transactionId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// UpdateTransaction handles the logic for editing a ledger row in place.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch models.TransactionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := normalizePatch(&patch); err != nil {
		h.writeError(w, err)
		return
	}

	tx, err := h.Ledger.UpdateTransaction(r.Context(), ownerID(r), chi.URLParam(r, "transactionId"), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// DeleteTransaction handles the logic for removing a ledger row.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.DeleteTransaction(r.Context(), ownerID(r), chi.URLParam(r, "transactionId")); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// normalizePatch enforces the same field rules as draft items on an in-place
// edit. Nil fields stay untouched.
func normalizePatch(patch *models.TransactionPatch) error {
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return models.NewValidationError("amount", "must be greater than zero")
	}
	if patch.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*patch.Currency))
		if currency == "" {
			return models.NewValidationError("currency", "must not be empty")
		}
		patch.Currency = &currency
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return models.NewValidationError("category", "must not be empty")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return models.NewValidationError("description", "must not be empty")
	}
	if patch.Type != nil && *patch.Type != models.Income && *patch.Type != models.Expense {
		return models.NewValidationError("type", "must be income or expense")
	}
	return nil
}
