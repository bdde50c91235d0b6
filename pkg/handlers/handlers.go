package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kvasylenko/finance-assistant/pkg/drafts"
	"github.com/kvasylenko/finance-assistant/pkg/middleware"
	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/parser"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
	"github.com/kvasylenko/finance-assistant/pkg/summary"
)

// ownerHeader carries the authenticated owner id. Authentication itself
// happens upstream; this service only scopes data by the id it is handed.
const ownerHeader = "X-User-Id"

type ownerKeyType struct{}

var ownerKey ownerKeyType

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	Drafts  *drafts.Service
	Ledger  storage.LedgerStore
	Summary *summary.Engine
	Parser  parser.TextParser
	Logger  *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(draftService *drafts.Service, ledger storage.LedgerStore, engine *summary.Engine, textParser parser.TextParser, logger *slog.Logger) *Handler {
	return &Handler{
		Drafts:  draftService,
		Ledger:  ledger,
		Summary: engine,
		Parser:  textParser,
		Logger:  logger,
	}
}

// NewRouter wires the full HTTP surface.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewStructuredLogger(logger))

	r.Get("/healthz", h.Health)

	r.Route("/finance", func(r chi.Router) {
		r.Use(requireOwner)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.CreateDraft)
			r.Get("/", h.ListDrafts)
			r.Get("/{draftId}", h.GetDraft)
			r.Patch("/{draftId}", h.UpdateDraft)
			r.Post("/{draftId}/apply", h.ApplyDraft)
			r.Post("/{draftId}/discard", h.DiscardDraft)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", h.CreateTransactions)
			r.Get("/", h.ListTransactions)
			r.Get("/{transactionId}", h.GetTransaction)
			r.Patch("/{transactionId}", h.UpdateTransaction)
			r.Delete("/{transactionId}", h.DeleteTransaction)
		})

		r.Get("/summary", h.GetSummary)
		r.Get("/meta/categories", h.ListCategories)

		r.Route("/ai", func(r chi.Router) {
			r.Post("/parse-text", h.ParseText)
			r.Post("/assistant", h.Assistant)
		})
	})

	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireOwner rejects requests without an owner id and stores it on the
// context for handlers.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(ownerHeader)
		if owner == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
			return
		}
		middleware.SetLogUserID(r.Context(), owner)
		ctx := context.WithValue(r.Context(), ownerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerID(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey).(string)
	return owner
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps domain errors onto HTTP statuses. Not-found stays
// indistinguishable between absent and foreign-owned resources.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var capacityErr *models.CapacityError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Reason, Field: validationErr.Field})
	case errors.As(err, &capacityErr):
		writeErrorMessage(w, http.StatusBadRequest, capacityErr.Error())
	case errors.Is(err, models.ErrDraftDiscarded),
		errors.Is(err, models.ErrDraftEmpty),
		errors.Is(err, storage.ErrDraftNotEditable):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, parser.ErrUnavailable):
		writeErrorMessage(w, http.StatusServiceUnavailable, "parser unavailable")
	default:
		h.Logger.Error("request failed", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}
