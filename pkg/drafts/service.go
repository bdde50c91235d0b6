package drafts

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kvasylenko/finance-assistant/pkg/events"
	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
)

// Service owns the draft lifecycle: creation, edits while open, and the
// apply/discard transitions. Apply orchestrates the idempotent batch commit;
// the ImportBatch receipt, not the draft's status field, is the source of
// truth for whether a draft's rows exist.
type Service struct {
	store     storage.Storage
	publisher events.Publisher
	logger    *slog.Logger
	maxItems  int
}

// NewService creates a new draft Service.
func NewService(store storage.Storage, publisher events.Publisher, logger *slog.Logger, maxItems int) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		maxItems:  maxItems,
	}
}

// BatchKeyForDraft derives the commit key from the draft's own identity, so
// every apply call for one draft targets the same key.
func BatchKeyForDraft(draftID string) string {
	return "draft:" + draftID
}

// CreateTransactions writes ledger rows directly, without a draft. Items pass
// the same validation as draft input and land through the same exactly-once
// commit. A caller-supplied batch key makes retries idempotent; without one a
// fresh key is generated and the call behaves as a plain insert.
func (s *Service) CreateTransactions(ctx context.Context, userID, batchKey string, rawItems []map[string]any) (*models.CommitResult, error) {
	items, err := NormalizeItems(rawItems, s.maxItems)
	if err != nil {
		return nil, err
	}
	if batchKey == "" {
		batchKey = "manual:" + uuid.New().String()
	}
	return s.store.CommitBatch(ctx, userID, batchKey, rowsFromItems(items, DefaultSource))
}

// Create validates the raw items and persists a new open draft.
func (s *Service) Create(ctx context.Context, userID, source, lang, title string, rawItems []map[string]any) (*models.Draft, error) {
	items, err := NormalizeItems(rawItems, s.maxItems)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = DefaultSource
	}

	draft := &models.Draft{
		UserId: userID,
		Source: source,
		Lang:   lang,
		Title:  title,
		Items:  items,
	}
	return s.store.CreateDraft(ctx, draft)
}

// Get retrieves one draft, ownership-scoped.
func (s *Service) Get(ctx context.Context, userID, draftID string) (*models.Draft, error) {
	return s.store.GetDraft(ctx, userID, draftID)
}

// List retrieves the owner's most recent drafts as summaries without item
// bodies.
func (s *Service) List(ctx context.Context, userID string, limit int32) ([]models.DraftSummary, error) {
	drafts, err := s.store.ListDrafts(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.DraftSummary, len(drafts))
	for i, draft := range drafts {
		summaries[i] = models.DraftSummary{
			Id:              draft.Id,
			UserId:          draft.UserId,
			Source:          draft.Source,
			Lang:            draft.Lang,
			Title:           draft.Title,
			Status:          draft.Status,
			ItemsCount:      len(draft.Items),
			AppliedBatchKey: draft.AppliedBatchKey,
			CreatedAt:       draft.CreatedAt,
			UpdatedAt:       draft.UpdatedAt,
		}
	}
	return summaries, nil
}

// UpdatePatch carries a draft edit. Nil fields keep the current value; items,
// when present, replace the list wholesale after full validation.
type UpdatePatch struct {
	Title *string
	Items []map[string]any
}

// Update edits an open draft. Drafts in a terminal status are rejected.
func (s *Service) Update(ctx context.Context, userID, draftID string, patch UpdatePatch) (*models.Draft, error) {
	draft, err := s.store.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftOpen {
		return nil, storage.ErrDraftNotEditable
	}

	title := draft.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	items := draft.Items
	if patch.Items != nil {
		items, err = NormalizeItems(patch.Items, s.maxItems)
		if err != nil {
			return nil, err
		}
	}

	return s.store.UpdateDraftContent(ctx, userID, draftID, title, items)
}

// Discard moves the draft to the terminal discarded status. Discarding an
// already-terminal draft succeeds without touching it; an applied draft's
// ledger rows are never reversed.
func (s *Service) Discard(ctx context.Context, userID, draftID string) error {
	return s.store.MarkDraftDiscarded(ctx, userID, draftID)
}

// Apply commits the draft's items to the ledger exactly once. Repeated calls,
// sequential or concurrent, return the same transaction ids; only the first
// performs writes. The status update afterwards is best-effort bookkeeping.
func (s *Service) Apply(ctx context.Context, userID, draftID string) (*models.CommitResult, error) {
	// Operate on one consistent snapshot. A racing edit that lands after this
	// read is the documented loser; see the reconciliation job for status
	// repair.
	draft, err := s.store.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status == models.DraftDiscarded {
		return nil, models.ErrDraftDiscarded
	}
	if len(draft.Items) == 0 {
		return nil, models.ErrDraftEmpty
	}
	if err := revalidateItems(draft.Items); err != nil {
		return nil, err
	}

	batchKey := draft.AppliedBatchKey
	if batchKey == "" {
		batchKey = BatchKeyForDraft(draft.Id)
	}

	result, err := s.store.CommitBatch(ctx, userID, batchKey, rowsFromDraft(draft))
	if err != nil {
		return nil, err
	}

	if draft.Status != models.DraftApplied || draft.AppliedBatchKey != batchKey {
		if err := s.store.MarkDraftApplied(ctx, userID, draftID, batchKey); err != nil {
			s.logger.Error("CRITICAL: batch committed but draft status update failed",
				"user_id", userID, "draft_id", draftID, "batch_key", batchKey, "error", err)
		}
	}

	if !result.Duplicate {
		event := events.BatchApplied{
			UserId:         userID,
			DraftId:        draftID,
			BatchKey:       batchKey,
			TransactionIds: result.TransactionIds,
			AppliedAt:      time.Now().UTC(),
		}
		if err := s.publisher.PublishBatchApplied(ctx, event); err != nil {
			s.logger.Error("failed to publish batch applied event",
				"draft_id", draftID, "batch_key", batchKey, "error", err)
		}
	}

	return result, nil
}

func rowsFromDraft(draft *models.Draft) []models.Transaction {
	return rowsFromItems(draft.Items, draft.Source)
}

func rowsFromItems(items []models.DraftItem, fallbackSource string) []models.Transaction {
	rows := make([]models.Transaction, len(items))
	for i, item := range items {
		source := item.Source
		if source == "" {
			source = fallbackSource
		}
		rows[i] = models.Transaction{
			Date:        item.Date,
			Amount:      item.Amount,
			Currency:    item.Currency,
			Category:    item.Category,
			Description: item.Description,
			Source:      source,
			Type:        item.Type,
		}
	}
	return rows
}
