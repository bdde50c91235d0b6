package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
	"github.com/kvasylenko/finance-assistant/pkg/storage/dynamodb/mocks"
)

func testRow(amount string, category string) models.Transaction {
	return models.Transaction{
		Date:     openapi_types.Date{Time: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		Amount:   decimal.RequireFromString(amount),
		Currency: "UAH",
		Category: category,
		Source:   "manual",
		Type:     models.Expense,
	}
}

func TestCommitBatch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			// One receipt plus two rows, receipt first.
			return len(input.TransactItems) == 3 &&
				*input.TransactItems[0].Put.TableName == "import_batches" &&
				*input.TransactItems[0].Put.ConditionExpression == "attribute_not_exists(batch_key)"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		rows := []models.Transaction{testRow("120.50", "groceries"), testRow("40", "transport")}
		result, err := store.CommitBatch(context.Background(), "user1", "draft:abc", rows)

		assert.NoError(t, err)
		assert.False(t, result.Duplicate)
		assert.Len(t, result.TransactionIds, 2)
		assert.Len(t, result.Transactions, 2)
		for i, tx := range result.Transactions {
			assert.Equal(t, result.TransactionIds[i], tx.Id)
			assert.Equal(t, "user1", tx.UserId)
			assert.False(t, tx.CreatedAt.IsZero())
		}
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Batch Key", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		cancellationReasons := []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().
			Return(nil, &types.TransactionCanceledException{CancellationReasons: cancellationReasons})

		receipt := batchRecord{
			UserId:         "user1",
			BatchKey:       "draft:abc",
			TransactionIds: []string{"tx-1", "tx-2"},
			CreatedAt:      time.Now().UTC(),
		}
		receiptAV, _ := attributevalue.MarshalMap(receipt)
		// The loser reads right behind the winner's write, so the replay must
		// not tolerate stale replicas.
		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.GetItemInput) bool {
			return input.ConsistentRead != nil && *input.ConsistentRead
		})).Once().Return(&dynamodb.GetItemOutput{Item: receiptAV}, nil)

		// Rows come back out of order; the result must follow the receipt.
		row1, _ := attributevalue.MarshalMap(transactionRecord{
			UserId: "user1", Id: "tx-1", Date: "2024-03-14", Amount: "120.50",
			Currency: "UAH", Category: "groceries", Source: "manual", Type: "expense",
		})
		row2, _ := attributevalue.MarshalMap(transactionRecord{
			UserId: "user1", Id: "tx-2", Date: "2024-03-14", Amount: "40",
			Currency: "UAH", Category: "transport", Source: "manual", Type: "expense",
		})
		mockClient.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.BatchGetItemInput) bool {
			attrs := input.RequestItems["transactions"]
			return attrs.ConsistentRead != nil && *attrs.ConsistentRead
		})).Once().
			Return(&dynamodb.BatchGetItemOutput{
				Responses: map[string][]map[string]types.AttributeValue{
					"transactions": {row2, row1},
				},
			}, nil)

		rows := []models.Transaction{testRow("120.50", "groceries"), testRow("40", "transport")}
		result, err := store.CommitBatch(context.Background(), "user1", "draft:abc", rows)

		assert.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, []string{"tx-1", "tx-2"}, result.TransactionIds)
		assert.Equal(t, "tx-1", result.Transactions[0].Id)
		assert.Equal(t, "tx-2", result.Transactions[1].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, errors.New("throttled"))

		_, err := store.CommitBatch(context.Background(), "user1", "draft:abc", []models.Transaction{testRow("10", "misc")})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit batch")
		mockClient.AssertExpectations(t)
	})

	t.Run("Cancellation Not On Receipt", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		cancellationReasons := []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("TransactionConflict")},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, &types.TransactionCanceledException{CancellationReasons: cancellationReasons})

		_, err := store.CommitBatch(context.Background(), "user1", "draft:abc", []models.Transaction{testRow("10", "misc")})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit batch")
		mockClient.AssertExpectations(t)
	})

	t.Run("Empty Rows", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		_, err := store.CommitBatch(context.Background(), "user1", "draft:abc", nil)

		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		mockClient.AssertExpectations(t)
	})

	t.Run("Too Many Rows", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")
		store.MaxBatchRows = 2

		rows := []models.Transaction{testRow("1", "a"), testRow("2", "b"), testRow("3", "c")}
		_, err := store.CommitBatch(context.Background(), "user1", "draft:abc", rows)

		var capacityErr *models.CapacityError
		assert.ErrorAs(t, err, &capacityErr)
		assert.Equal(t, 3, capacityErr.Count)
		assert.Equal(t, 2, capacityErr.Max)
		mockClient.AssertExpectations(t)
	})
}

func TestGetImportBatch(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		receipt := batchRecord{UserId: "user1", BatchKey: "draft:abc", TransactionIds: []string{"tx-1"}}
		receiptAV, _ := attributevalue.MarshalMap(receipt)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: receiptAV}, nil)

		batch, err := store.GetImportBatch(context.Background(), "user1", "draft:abc")

		assert.NoError(t, err)
		assert.Equal(t, []string{"tx-1"}, batch.TransactionIds)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := store.GetImportBatch(context.Background(), "user1", "missing")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}
