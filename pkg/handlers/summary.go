package handlers

import (
	"net/http"
	"time"

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/period"
)

// GetSummary handles the aggregation endpoint. The range comes either from
// explicit from/to bounds or from a relative period phrase resolved in-core.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	typeFilter, ok := parseTypeFilter(query.Get("type"))
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	from, to := query.Get("from"), query.Get("to")
	if phrase := query.Get("period"); phrase != "" {
		resolved := period.Resolve(phrase, time.Now().UTC())
		from, to = resolved.FromString(), resolved.ToString()
	}
	if from == "" || to == "" {
		writeErrorMessage(w, http.StatusBadRequest, "from and to (or period) are required")
		return
	}
	if !validDay(from) || !validDay(to) {
		writeErrorMessage(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD dates")
		return
	}

	result, err := h.Summary.Summarize(r.Context(), ownerID(r), from, to, typeFilter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseTypeFilter(raw string) (models.TransactionType, bool) {
	switch models.TransactionType(raw) {
	case "", models.Income, models.Expense:
		return models.TransactionType(raw), true
	default:
		return "", false
	}
}

func validDay(s string) bool {
	_, err := time.Parse(dayLayout, s)
	return err == nil
}
