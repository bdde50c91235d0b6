package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
)

// batchGetChunkSize is the BatchGetItem per-request key limit.
const batchGetChunkSize = 100

// CommitBatch writes rows and an ImportBatch receipt in one TransactWriteItems
// call. The receipt Put is conditioned on attribute_not_exists(batch_key), so
// exactly one caller per (owner, batchKey) gets its writes through. When the
// condition fails the batch was already committed and the original rows are
// fetched back instead.
func (s *Store) CommitBatch(ctx context.Context, userID, batchKey string, rows []models.Transaction) (*models.CommitResult, error) {
	if len(rows) == 0 {
		return nil, models.NewValidationError("transactions", "must contain at least one row")
	}
	if len(rows) > s.MaxBatchRows {
		return nil, &models.CapacityError{Count: len(rows), Max: s.MaxBatchRows}
	}

	now := time.Now().UTC()
	ids := make([]string, len(rows))
	for i := range rows {
		rows[i].Id = uuid.New().String()
		rows[i].UserId = userID
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
		ids[i] = rows[i].Id
	}

	receipt := models.ImportBatch{
		UserId:         userID,
		BatchKey:       batchKey,
		TransactionIds: ids,
		CreatedAt:      now,
	}
	receiptItem, err := attributevalue.MarshalMap(newBatchRecord(receipt))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import batch: %w", err)
	}

	// The receipt is the first transact item so a duplicate key cancels the
	// whole unit with ConditionalCheckFailed at index 0.
	transactItems := make([]types.TransactWriteItem, 0, len(rows)+1)
	transactItems = append(transactItems, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.BatchesTableName),
			Item:                receiptItem,
			ConditionExpression: aws.String("attribute_not_exists(batch_key)"),
		},
	})
	for _, row := range rows {
		item, err := attributevalue.MarshalMap(newTransactionRecord(row))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal transaction: %w", err)
		}
		transactItems = append(transactItems, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.TransactionsTableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && isBatchKeyConflict(canceled) {
			return s.replayCommittedBatch(ctx, userID, batchKey)
		}
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}

	return &models.CommitResult{
		Duplicate:      false,
		TransactionIds: ids,
		Transactions:   rows,
	}, nil
}

// GetImportBatch retrieves the commit receipt for (owner, batchKey).
func (s *Store) GetImportBatch(ctx context.Context, userID, batchKey string) (*models.ImportBatch, error) {
	// Strongly consistent: on the duplicate path this read races the winner's
	// commit by milliseconds, and a stale replica would miss the receipt.
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.BatchesTableName),
		Key: map[string]types.AttributeValue{
			"user_id":   &types.AttributeValueMemberS{Value: userID},
			"batch_key": &types.AttributeValueMemberS{Value: batchKey},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get import batch: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var record batchRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal import batch: %w", err)
	}
	batch := record.toModel()
	return &batch, nil
}

// isBatchKeyConflict reports whether the transact cancellation was caused by
// the receipt's uniqueness condition rather than a throttling or row failure.
func isBatchKeyConflict(canceled *types.TransactionCanceledException) bool {
	if len(canceled.CancellationReasons) == 0 {
		return false
	}
	reason := canceled.CancellationReasons[0]
	return reason.Code != nil && *reason.Code == "ConditionalCheckFailed"
}

// replayCommittedBatch serves the duplicate path: load the receipt written by
// the winning call and fetch its rows back in the receipt's order.
func (s *Store) replayCommittedBatch(ctx context.Context, userID, batchKey string) (*models.CommitResult, error) {
	receipt, err := s.GetImportBatch(ctx, userID, batchKey)
	if err != nil {
		return nil, fmt.Errorf("batch key %q claimed but receipt unreadable: %w", batchKey, err)
	}

	transactions, err := s.getTransactionsByIds(ctx, userID, receipt.TransactionIds)
	if err != nil {
		return nil, err
	}

	return &models.CommitResult{
		Duplicate:      true,
		TransactionIds: receipt.TransactionIds,
		Transactions:   transactions,
	}, nil
}

// getTransactionsByIds fetches rows by id in chunks, concurrently, and returns
// them ordered as the ids slice.
func (s *Store) getTransactionsByIds(ctx context.Context, userID string, ids []string) ([]models.Transaction, error) {
	chunks := make([][]string, 0, (len(ids)+batchGetChunkSize-1)/batchGetChunkSize)
	for start := 0; start < len(ids); start += batchGetChunkSize {
		end := min(start+batchGetChunkSize, len(ids))
		chunks = append(chunks, ids[start:end])
	}

	results := make([][]models.Transaction, len(chunks))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		group.Go(func() error {
			fetched, err := s.batchGetTransactions(groupCtx, userID, chunk)
			if err != nil {
				return err
			}
			results[i] = fetched
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	byId := make(map[string]models.Transaction, len(ids))
	for _, fetched := range results {
		for _, tx := range fetched {
			byId[tx.Id] = tx
		}
	}

	ordered := make([]models.Transaction, 0, len(ids))
	for _, id := range ids {
		tx, ok := byId[id]
		if !ok {
			return nil, fmt.Errorf("committed transaction %s missing: %w", id, storage.ErrNotFound)
		}
		ordered = append(ordered, tx)
	}
	return ordered, nil
}

func (s *Store) batchGetTransactions(ctx context.Context, userID string, ids []string) ([]models.Transaction, error) {
	keys := make([]map[string]types.AttributeValue, len(ids))
	for i, id := range ids {
		keys[i] = map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: id},
		}
	}

	transactions := make([]models.Transaction, 0, len(ids))
	for len(keys) > 0 {
		result, err := s.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				s.TransactionsTableName: {Keys: keys, ConsistentRead: aws.Bool(true)},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to batch get transactions: %w", err)
		}

		for _, item := range result.Responses[s.TransactionsTableName] {
			var record transactionRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
			}
			tx, err := record.toModel()
			if err != nil {
				return nil, err
			}
			transactions = append(transactions, tx)
		}

		keys = result.UnprocessedKeys[s.TransactionsTableName].Keys
	}
	return transactions, nil
}
