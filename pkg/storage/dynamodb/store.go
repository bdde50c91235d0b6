package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
)

// DynamoDBAPI defines the subset of the DynamoDB client used by the store.
// It exists so tests can substitute a mock.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	TransactionsTableName string
	DraftsTableName       string
	BatchesTableName      string

	// MaxBatchRows caps one commit. A TransactWriteItems call holds at most
	// 100 items and a commit spends one on the ImportBatch receipt.
	MaxBatchRows int
}

// DefaultMaxBatchRows leaves room for the receipt inside the 100-item
// transact-write limit.
const DefaultMaxBatchRows = 99

// New creates a new Store.
func New(client DynamoDBAPI, transactionsTable, draftsTable, batchesTable string) *Store {
	return &Store{
		Client:                client,
		TransactionsTableName: transactionsTable,
		DraftsTableName:       draftsTable,
		BatchesTableName:      batchesTable,
		MaxBatchRows:          DefaultMaxBatchRows,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
