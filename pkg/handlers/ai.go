package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/parser"
	"github.com/kvasylenko/finance-assistant/pkg/period"
)

type parseTextRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
	Save bool   `json:"save"`
}

type parseTextResponse struct {
	Items    []map[string]any `json:"items"`
	Title    string           `json:"title,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
	Draft    *models.Draft    `json:"draft,omitempty"`
}

// ParseText runs free text through the external parser. With save=true the
// parsed items go straight into a new draft, passing the same validation as
// manual input.
func (h *Handler) ParseText(w http.ResponseWriter, r *http.Request) {
	if h.Parser == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "parser unavailable")
		return
	}

	var req parseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		h.writeError(w, models.NewValidationError("text", "must not be empty"))
		return
	}

	result, err := h.Parser.ParseExpenses(r.Context(), req.Text, req.Lang)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response := parseTextResponse{
		Items:    result.Items,
		Title:    result.Title,
		Warnings: result.Warnings,
	}

	if req.Save {
		draft, err := h.Drafts.Create(r.Context(), ownerID(r), "text", req.Lang, result.Title, result.Items)
		if err != nil {
			h.writeError(w, err)
			return
		}
		response.Draft = draft
	}

	writeJSON(w, http.StatusOK, response)
}

type assistantRequest struct {
	Question string `json:"question"`
}

type assistantResponse struct {
	Answer   string          `json:"answer"`
	Intent   parser.Intent   `json:"intent"`
	Category string          `json:"category,omitempty"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Summary  *models.Summary `json:"summary"`
}

// Assistant answers a finance question: the model only classifies the
// question, while the period comes from the in-core resolver and the numbers
// from the aggregation engine.
func (h *Handler) Assistant(w http.ResponseWriter, r *http.Request) {
	if h.Parser == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "parser unavailable")
		return
	}

	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		h.writeError(w, models.NewValidationError("question", "must not be empty"))
		return
	}

	interpretation, err := h.Parser.InterpretQuestion(r.Context(), req.Question)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resolved := period.Resolve(req.Question, time.Now().UTC())
	from, to := resolved.FromString(), resolved.ToString()

	// Spending questions read the expense breakdown; totals stay unfiltered
	// either way.
	typeFilter := models.TransactionType("")
	if interpretation.Intent != parser.IntentTotal {
		typeFilter = models.Expense
	}

	result, err := h.Summary.Summarize(r.Context(), ownerID(r), from, to, typeFilter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assistantResponse{
		Answer:   composeAnswer(interpretation, result, from, to),
		Intent:   interpretation.Intent,
		Category: interpretation.Category,
		From:     from,
		To:       to,
		Summary:  result,
	})
}

func composeAnswer(interpretation *parser.QuestionInterpretation, result *models.Summary, from, to string) string {
	switch interpretation.Intent {
	case parser.IntentCategory:
		amount := decimal.Zero
		for _, row := range result.ByCategory {
			if row.Category == interpretation.Category {
				amount = row.Amount
				break
			}
		}
		return fmt.Sprintf("Between %s and %s you spent %s on %s.", from, to, amount.String(), interpretation.Category)
	case parser.IntentBiggestCategory:
		var biggest *models.CategorySum
		for i, row := range result.ByCategory {
			if biggest == nil || row.Amount.GreaterThan(biggest.Amount) {
				biggest = &result.ByCategory[i]
			}
		}
		if biggest == nil {
			return fmt.Sprintf("No spending recorded between %s and %s.", from, to)
		}
		return fmt.Sprintf("Between %s and %s you spent most on %s (%s).", from, to, biggest.Category, biggest.Amount.String())
	default:
		return fmt.Sprintf("Between %s and %s you earned %s and spent %s; balance %s.",
			from, to, result.IncomeTotal.String(), result.ExpenseTotal.String(), result.Balance.String())
	}
}
