package drafts

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kvasylenko/finance-assistant/pkg/events"
	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
	"github.com/kvasylenko/finance-assistant/pkg/storage/mocks"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	published []events.BatchApplied
}

func (p *recordingPublisher) PublishBatchApplied(ctx context.Context, event events.BatchApplied) error {
	p.published = append(p.published, event)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openDraft() *models.Draft {
	return &models.Draft{
		Id:     "draft-1",
		UserId: "user1",
		Source: "text",
		Status: models.DraftOpen,
		Items: []models.DraftItem{
			{
				Date:        openapi_types.Date{Time: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
				Amount:      decimal.RequireFromString("120.50"),
				Currency:    "UAH",
				Category:    "groceries",
				Description: "weekly shop",
				Source:      "text",
				Type:        models.Expense,
			},
		},
	}
}

func TestCreate(t *testing.T) {
	t.Run("Fills Defaults", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		mockStore.On("CreateDraft", mock.Anything, mock.MatchedBy(func(draft *models.Draft) bool {
			item := draft.Items[0]
			return item.Currency == "UAH" && item.Source == "manual" && item.Type == models.Expense
		})).Return(openDraft(), nil)

		raw := []map[string]any{
			{"date": "2024-03-14", "amount": 120.50, "category": "groceries", "description": "weekly shop"},
		}
		_, err := service.Create(context.Background(), "user1", "manual", "", "", raw)

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("Rejects Invalid Item", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		raw := []map[string]any{
			{"date": "2024-03-14", "category": "groceries", "description": "weekly shop"},
		}
		_, err := service.Create(context.Background(), "user1", "manual", "", "", raw)

		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "items[0].amount", validationErr.Field)
		mockStore.AssertNotCalled(t, "CreateDraft", mock.Anything, mock.Anything)
	})

	t.Run("Rejects Too Many Items", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 1)

		raw := []map[string]any{
			{"date": "2024-03-14", "amount": 1.0, "category": "a", "description": "x"},
			{"date": "2024-03-14", "amount": 2.0, "category": "b", "description": "y"},
		}
		_, err := service.Create(context.Background(), "user1", "manual", "", "", raw)

		var capacityErr *models.CapacityError
		assert.ErrorAs(t, err, &capacityErr)
	})
}

func TestCreateTransactions(t *testing.T) {
	t.Run("Generates Batch Key", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		commitResult := &models.CommitResult{
			Duplicate:      false,
			TransactionIds: []string{"tx-1"},
			Transactions:   []models.Transaction{{Id: "tx-1"}},
		}
		mockStore.On("CommitBatch", mock.Anything, "user1", mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "manual:") && len(key) > len("manual:")
		}), mock.MatchedBy(func(rows []models.Transaction) bool {
			return len(rows) == 1 && rows[0].Category == "groceries" && rows[0].Source == "manual"
		})).Return(commitResult, nil)

		raw := []map[string]any{
			{"date": "2024-03-14", "amount": 120.50, "category": "groceries", "description": "weekly shop"},
		}
		result, err := service.CreateTransactions(context.Background(), "user1", "", raw)

		assert.NoError(t, err)
		assert.False(t, result.Duplicate)
		mockStore.AssertExpectations(t)
	})

	t.Run("Honors Caller Batch Key", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		commitResult := &models.CommitResult{
			Duplicate:      true,
			TransactionIds: []string{"tx-1"},
			Transactions:   []models.Transaction{{Id: "tx-1"}},
		}
		mockStore.On("CommitBatch", mock.Anything, "user1", "import-2024-03", mock.Anything).Return(commitResult, nil)

		raw := []map[string]any{
			{"date": "2024-03-14", "amount": 10.0, "category": "misc", "description": "retry"},
		}
		result, err := service.CreateTransactions(context.Background(), "user1", "import-2024-03", raw)

		assert.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, []string{"tx-1"}, result.TransactionIds)
		mockStore.AssertExpectations(t)
	})

	t.Run("Rejects Invalid Item", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		raw := []map[string]any{
			{"date": "not-a-date", "amount": 10.0, "category": "misc", "description": "x"},
		}
		_, err := service.CreateTransactions(context.Background(), "user1", "", raw)

		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "items[0].date", validationErr.Field)
		mockStore.AssertNotCalled(t, "CommitBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("Replaces Items Wholesale", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		mockStore.On("GetDraft", mock.Anything, "user1", "draft-1").Return(openDraft(), nil)
		mockStore.On("UpdateDraftContent", mock.Anything, "user1", "draft-1", "new title", mock.MatchedBy(func(items []models.DraftItem) bool {
			return len(items) == 1 && items[0].Category == "transport"
		})).Return(openDraft(), nil)

		title := "new title"
		_, err := service.Update(context.Background(), "user1", "draft-1", UpdatePatch{
			Title: &title,
			Items: []map[string]any{
				{"date": "2024-03-15", "amount": 30.0, "category": "transport", "description": "bus"},
			},
		})

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("Rejects Terminal Draft", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		applied := openDraft()
		applied.Status = models.DraftApplied
		mockStore.On("GetDraft", mock.Anything, "user1", "draft-1").Return(applied, nil)

		title := "new title"
		_, err := service.Update(context.Background(), "user1", "draft-1", UpdatePatch{Title: &title})

		assert.ErrorIs(t, err, storage.ErrDraftNotEditable)
		mockStore.AssertNotCalled(t, "UpdateDraftContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestApply(t *testing.T) {
	t.Run("First Apply", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		publisher := &recordingPublisher{}
		service := NewService(mockStore, publisher, testLogger(), 99)

		mockStore.On("GetDraft", mock.Anything, "user1", "draft-1").Return(openDraft(), nil)
		commitResult := &models.CommitResult{
			Duplicate:      false,
			TransactionIds: []string{"tx-1"},
			Transactions:   []models.Transaction{{Id: "tx-1"}},
		}
		mockStore.On("CommitBatch", mock.Anything, "user1", "draft:draft-1", mock.MatchedBy(func(rows []models.Transaction) bool {
			return len(rows) == 1 && rows[0].Category == "groceries"
		})).Return(commitResult, nil)
		mockStore.On("MarkDraftApplied", mock.Anything, "user1", "draft-1", "draft:draft-1").Return(nil)

		result, err := service.Apply(context.Background(), "user1", "draft-1")

		assert.NoError(t, err)
		assert.False(t, result.Duplicate)
		assert.Equal(t, []string{"tx-1"}, result.TransactionIds)
		assert.Len(t, publisher.published, 1)
		assert.Equal(t, "draft:draft-1", publisher.published[0].BatchKey)
		mockStore.AssertExpectations(t)
	})

	t.Run("Repeat Apply Is Duplicate", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		publisher := &recordingPublisher{}
		service := NewService(mockStore, publisher, testLogger(), 99)

		applied := openDraft()
		applied.Status = models.DraftApplied
		applied.AppliedBatchKey = "draft:draft-1"
		mockStore.On("GetDraft", mock.Anything, "user1", "draft-1").Return(applied, nil)
		commitResult := &models.CommitResult{
			Duplicate:      true,
			TransactionIds: []string{"tx-1"},
			Transactions:   []models.Transaction{{Id: "tx-1"}},
		}
		mockStore.On("CommitBatch", mock.Anything, "user1", "draft:draft-1", mock.Anything).Return(commitResult, nil)

		result, err := service.Apply(context.Background(), "user1", "draft-1")

		assert.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, []string{"tx-1"}, result.TransactionIds)
		assert.Empty(t, publisher.published)
		mockStore.AssertNotCalled(t, "MarkDraftApplied", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Discarded Draft", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		discarded := openDraft()
		discarded.Status = models.DraftDiscarded
		mockStore.On("GetDraft", mock.Anything, "user1", "draft-1").Return(discarded, nil)

		_, err := service.Apply(context.Background(), "user1", "draft-1")

		assert.ErrorIs(t, err, models.ErrDraftDiscarded)
		mockStore.AssertNotCalled(t, "CommitBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty Draft", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		empty := openDraft()
		empty.Items = nil
		mockStore.On("GetDraft", mock.Anything, "user1", "draft-1").Return(empty, nil)

		_, err := service.Apply(context.Background(), "user1", "draft-1")

		assert.ErrorIs(t, err, models.ErrDraftEmpty)
		mockStore.AssertNotCalled(t, "CommitBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stale Invalid Items", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		stale := openDraft()
		stale.Items[0].Amount = decimal.Zero
		mockStore.On("GetDraft", mock.Anything, "user1", "draft-1").Return(stale, nil)

		_, err := service.Apply(context.Background(), "user1", "draft-1")

		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		mockStore.AssertNotCalled(t, "CommitBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bookkeeping Failure Does Not Fail Apply", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

		mockStore.On("GetDraft", mock.Anything, "user1", "draft-1").Return(openDraft(), nil)
		commitResult := &models.CommitResult{Duplicate: false, TransactionIds: []string{"tx-1"}}
		mockStore.On("CommitBatch", mock.Anything, "user1", "draft:draft-1", mock.Anything).Return(commitResult, nil)
		mockStore.On("MarkDraftApplied", mock.Anything, "user1", "draft-1", "draft:draft-1").Return(storage.ErrNotFound)

		result, err := service.Apply(context.Background(), "user1", "draft-1")

		assert.NoError(t, err)
		assert.False(t, result.Duplicate)
		mockStore.AssertExpectations(t)
	})
}

func TestDiscard(t *testing.T) {
	mockStore := new(mocks.Storage)
	service := NewService(mockStore, &events.NoOpPublisher{}, testLogger(), 99)

	mockStore.On("MarkDraftDiscarded", mock.Anything, "user1", "draft-1").Return(nil)

	err := service.Discard(context.Background(), "user1", "draft-1")

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}
