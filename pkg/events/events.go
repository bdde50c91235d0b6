package events

import (
	"context"
	"time"
)

// BatchApplied is emitted after a draft's rows are committed to the ledger.
// Consumers use it for notifications and cache refresh; the ledger itself
// never depends on delivery.
type BatchApplied struct {
	UserId         string    `json:"user_id"`
	DraftId        string    `json:"draft_id"`
	BatchKey       string    `json:"batch_key"`
	TransactionIds []string  `json:"transaction_ids"`
	AppliedAt      time.Time `json:"applied_at"`
}

// Publisher defines the interface for a component that emits batch events.
type Publisher interface {
	// PublishBatchApplied enqueues a batch-applied event for asynchronous
	// consumers.
	PublishBatchApplied(ctx context.Context, event BatchApplied) error
}

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// PublishBatchApplied does nothing.
func (p *NoOpPublisher) PublishBatchApplied(ctx context.Context, event BatchApplied) error {
	return nil
}
