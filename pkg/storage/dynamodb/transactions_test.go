package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
	"github.com/kvasylenko/finance-assistant/pkg/storage/dynamodb/mocks"
)

func testTransactionRecord(id, date, amount string) transactionRecord {
	return transactionRecord{
		UserId:   "user1",
		Id:       id,
		Date:     date,
		Amount:   amount,
		Currency: "UAH",
		Category: "groceries",
		Source:   "manual",
		Type:     "expense",
	}
}

func TestGetTransaction(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		recordAV, _ := attributevalue.MarshalMap(testTransactionRecord("tx-1", "2024-03-14", "120.50"))
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: recordAV}, nil)

		tx, err := store.GetTransaction(context.Background(), "user1", "tx-1")

		assert.NoError(t, err)
		assert.Equal(t, "tx-1", tx.Id)
		assert.Equal(t, "2024-03-14", tx.Date.Time.Format(dayLayout))
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("120.50")))
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := store.GetTransaction(context.Background(), "user1", "missing")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("Date Range And Category", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		recordAV, _ := attributevalue.MarshalMap(testTransactionRecord("tx-1", "2024-03-14", "120.50"))
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return *input.IndexName == transactionsByDateIndex &&
				*input.KeyConditionExpression == "user_id = :user_id AND #date BETWEEN :from AND :to" &&
				input.FilterExpression != nil &&
				!*input.ScanIndexForward
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{recordAV}}, nil)

		filter := storage.TransactionFilter{From: "2024-03-01", To: "2024-03-31", Category: "groceries", Limit: 50}
		transactions, err := store.ListTransactions(context.Background(), "user1", filter)

		assert.NoError(t, err)
		assert.Len(t, transactions, 1)
		mockClient.AssertExpectations(t)
	})

	t.Run("Open Ended", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return *input.KeyConditionExpression == "user_id = :user_id" && input.FilterExpression == nil
		})).Return(&dynamodb.QueryOutput{}, nil)

		transactions, err := store.ListTransactions(context.Background(), "user1", storage.TransactionFilter{})

		assert.NoError(t, err)
		assert.Empty(t, transactions)
		mockClient.AssertExpectations(t)
	})
}

func TestQueryTransactionsByDate(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := New(mockClient, "transactions", "drafts", "import_batches")

	page1, _ := attributevalue.MarshalMap(testTransactionRecord("tx-1", "2024-03-01", "10"))
	page2, _ := attributevalue.MarshalMap(testTransactionRecord("tx-2", "2024-03-02", "20"))
	lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "tx-1"}}

	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
		return input.ExclusiveStartKey == nil
	})).Once().Return(&dynamodb.QueryOutput{
		Items:            []map[string]types.AttributeValue{page1},
		LastEvaluatedKey: lastKey,
	}, nil)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
		return input.ExclusiveStartKey != nil
	})).Once().Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{page2},
	}, nil)

	transactions, err := store.QueryTransactionsByDate(context.Background(), "user1", "2024-03-01", "2024-03-31")

	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, "tx-1", transactions[0].Id)
	assert.Equal(t, "tx-2", transactions[1].Id)
	mockClient.AssertExpectations(t)
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("Partial Patch", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		updated := testTransactionRecord("tx-1", "2024-03-14", "99")
		updated.Category = "dining"
		updatedAV, _ := attributevalue.MarshalMap(updated)
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.UpdateItemInput) bool {
			expr := *input.UpdateExpression
			return expr == "SET updated_at = :updated_at, amount = :amount, category = :category"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: updatedAV}, nil)

		amount := decimal.RequireFromString("99")
		category := "dining"
		tx, err := store.UpdateTransaction(context.Background(), "user1", "tx-1", models.TransactionPatch{
			Amount:   &amount,
			Category: &category,
		})

		assert.NoError(t, err)
		assert.Equal(t, "dining", tx.Category)
		assert.True(t, tx.Amount.Equal(amount))
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		category := "dining"
		_, err := store.UpdateTransaction(context.Background(), "user1", "missing", models.TransactionPatch{Category: &category})

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(&dynamodb.DeleteItemOutput{}, nil)

		err := store.DeleteTransaction(context.Background(), "user1", "tx-1")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "transactions", "drafts", "import_batches")

		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := store.DeleteTransaction(context.Background(), "user1", "missing")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}
