package storage

import (
	"context"

	"github.com/kvasylenko/finance-assistant/pkg/models"
)

// BatchWriter defines the privileged interface for committing ledger rows.
// CommitBatch is the only way Transaction rows come into existence.
type BatchWriter interface {
	// CommitBatch writes every row plus one ImportBatch receipt atomically,
	// exactly once per (owner, batchKey). A second call with the same key
	// performs no writes and returns the original rows with Duplicate set.
	// Rows must be complete except for id and timestamps, which the writer
	// assigns. Empty input and input over the writer's configured maximum are
	// rejected before any write attempt.
	CommitBatch(ctx context.Context, userID, batchKey string, rows []models.Transaction) (*models.CommitResult, error)

	// GetImportBatch retrieves the commit receipt for (owner, batchKey).
	GetImportBatch(ctx context.Context, userID, batchKey string) (*models.ImportBatch, error)
}
