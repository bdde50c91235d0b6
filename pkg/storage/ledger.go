package storage

import (
	"context"

	"github.com/kvasylenko/finance-assistant/pkg/models"
)

// TransactionFilter narrows a ledger listing. From/To are inclusive
// YYYY-MM-DD bounds; empty strings leave the bound open.
type TransactionFilter struct {
	From     string
	To       string
	Category string
	Limit    int32
}

// LedgerReader defines the interface for reading committed ledger rows.
type LedgerReader interface {
	// GetTransaction retrieves one ledger row by id for the given owner.
	GetTransaction(ctx context.Context, userID, txID string) (*models.Transaction, error)

	// ListTransactions retrieves the owner's ledger rows matching the filter,
	// most recent date first.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)

	// QueryTransactionsByDate retrieves all of the owner's rows dated inside
	// the inclusive [from, to] range (YYYY-MM-DD), ascending by date. This is
	// the aggregation engine's feed.
	QueryTransactionsByDate(ctx context.Context, userID, from, to string) ([]models.Transaction, error)
}

// LedgerManager defines the interface for editing committed ledger rows.
// Rows are only ever created through the BatchWriter.
type LedgerManager interface {
	// UpdateTransaction applies the non-nil fields of patch to an existing row.
	UpdateTransaction(ctx context.Context, userID, txID string, patch models.TransactionPatch) (*models.Transaction, error)

	// DeleteTransaction removes one ledger row owned by the user.
	DeleteTransaction(ctx context.Context, userID, txID string) error
}

// LedgerStore combines the reader and manager interfaces.
type LedgerStore interface {
	LedgerReader
	LedgerManager
}
