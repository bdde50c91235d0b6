package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kvasylenko/finance-assistant/pkg/drafts"
)

const defaultListLimit = 20

type createDraftRequest struct {
	Source string           `json:"source"`
	Lang   string           `json:"lang"`
	Title  string           `json:"title"`
	Items  []map[string]any `json:"items"`
}

type updateDraftRequest struct {
	Title *string          `json:"title"`
	Items []map[string]any `json:"items"`
}

// CreateDraft handles the logic for creating a new draft.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := h.Drafts.Create(r.Context(), ownerID(r), req.Source, req.Lang, req.Title, req.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, draft)
}

// ListDrafts handles the logic for listing the owner's drafts.
func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	limit := int32(defaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 1 {
			writeErrorMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = int32(parsed)
	}

	summaries, err := h.Drafts.List(r.Context(), ownerID(r), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// GetDraft handles the logic for retrieving a draft by its ID.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Drafts.Get(r.Context(), ownerID(r), chi.URLParam(r, "draftId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// UpdateDraft handles the logic for editing an open draft.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req updateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := h.Drafts.Update(r.Context(), ownerID(r), chi.URLParam(r, "draftId"), drafts.UpdatePatch{
		Title: req.Title,
		Items: req.Items,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// ApplyDraft handles the logic for committing a draft's items to the ledger.
func (h *Handler) ApplyDraft(w http.ResponseWriter, r *http.Request) {
	result, err := h.Drafts.Apply(r.Context(), ownerID(r), chi.URLParam(r, "draftId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DiscardDraft handles the logic for discarding a draft.
func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.Drafts.Discard(r.Context(), ownerID(r), chi.URLParam(r, "draftId")); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}
