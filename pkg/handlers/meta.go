package handlers

import (
	"net/http"

	"github.com/kvasylenko/finance-assistant/pkg/models"
)

// ListCategories serves the category catalog clients and the parser share.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.CategoriesMeta(r.URL.Query().Get("lang")))
}
