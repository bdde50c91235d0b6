package storage

import (
	"context"
	"time"

	"github.com/kvasylenko/finance-assistant/pkg/models"
)

// DraftReader defines the interface for reading draft data. All reads are
// ownership-scoped: a draft belonging to another user is indistinguishable
// from an absent one.
type DraftReader interface {
	// GetDraft retrieves a draft by id for the given owner.
	GetDraft(ctx context.Context, userID, draftID string) (*models.Draft, error)

	// ListDrafts retrieves the owner's most recent drafts, newest first.
	ListDrafts(ctx context.Context, userID string, limit int32) ([]models.Draft, error)

	// ListStaleOpenDrafts retrieves drafts still in draft status that were
	// last touched before the given age. Used by reconciliation to find
	// drafts whose apply bookkeeping was lost.
	ListStaleOpenDrafts(ctx context.Context, maxAge time.Duration) ([]models.Draft, error)
}

// DraftManager defines the interface for creating and mutating drafts.
type DraftManager interface {
	// CreateDraft persists a new draft and returns it with server-side
	// fields (id, timestamps, status) filled in.
	CreateDraft(ctx context.Context, draft *models.Draft) (*models.Draft, error)

	// UpdateDraftContent replaces the draft's title and items wholesale.
	// The state machine (draft-status-only edits) is enforced by the caller;
	// the store enforces it again with a conditional write.
	UpdateDraftContent(ctx context.Context, userID, draftID, title string, items []models.DraftItem) (*models.Draft, error)

	// MarkDraftApplied records the terminal applied status and the batch key
	// that committed the draft's items.
	MarkDraftApplied(ctx context.Context, userID, draftID, batchKey string) error

	// MarkDraftDiscarded records the terminal discarded status. Discarding an
	// already-terminal draft is accepted and has no further effect.
	MarkDraftDiscarded(ctx context.Context, userID, draftID string) error
}

// DraftStore combines the reader and manager interfaces.
type DraftStore interface {
	DraftReader
	DraftManager
}
