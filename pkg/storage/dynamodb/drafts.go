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

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
)

const (
	draftsByCreatedAtIndex = "user_id-created_at-index"
	draftsByStatusIndex    = "status-updated_at-index"
)

// CreateDraft persists a new draft in the open status.
func (s *Store) CreateDraft(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	now := time.Now().UTC()
	draft.Id = uuid.New().String()
	draft.Status = models.DraftOpen
	draft.CreatedAt = now
	draft.UpdatedAt = now

	item, err := attributevalue.MarshalMap(newDraftRecord(*draft))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.DraftsTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return draft, nil
}

// GetDraft retrieves a draft by id for the given owner.
func (s *Store) GetDraft(ctx context.Context, userID, draftID string) (*models.Draft, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.DraftsTableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: draftID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var record draftRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	draft, err := record.toModel()
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// ListDrafts retrieves the owner's most recent drafts, newest first, via the
// created_at index.
func (s *Store) ListDrafts(ctx context.Context, userID string, limit int32) ([]models.Draft, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.DraftsTableName),
		IndexName:              aws.String(draftsByCreatedAtIndex),
		KeyConditionExpression: aws.String("user_id = :user_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return unmarshalDrafts(result.Items)
}

// ListStaleOpenDrafts retrieves open drafts across all users last touched
// before maxAge ago. Reconciliation uses it to find drafts whose apply
// bookkeeping was lost after a successful commit.
func (s *Store) ListStaleOpenDrafts(ctx context.Context, maxAge time.Duration) ([]models.Draft, error) {
	cutoff, err := attributevalue.Marshal(time.Now().UTC().Add(-maxAge))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff: %w", err)
	}

	var drafts []models.Draft
	var startKey map[string]types.AttributeValue
	for {
		result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.DraftsTableName),
			IndexName:              aws.String(draftsByStatusIndex),
			KeyConditionExpression: aws.String("#status = :open AND updated_at < :cutoff"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":open":   &types.AttributeValueMemberS{Value: string(models.DraftOpen)},
				":cutoff": cutoff,
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list stale drafts: %w", err)
		}

		page, err := unmarshalDrafts(result.Items)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, page...)

		if result.LastEvaluatedKey == nil {
			return drafts, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// UpdateDraftContent replaces the draft's title and items wholesale. The write
// is conditioned on the draft still being open, so a concurrent apply or
// discard loses no data.
func (s *Store) UpdateDraftContent(ctx context.Context, userID, draftID, title string, items []models.DraftItem) (*models.Draft, error) {
	itemsAV, err := attributevalue.Marshal(newDraftItemRecords(items))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft items: %w", err)
	}
	updatedAt, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	result, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.DraftsTableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: draftID},
		},
		UpdateExpression:    aws.String("SET title = :title, #items = :items, updated_at = :updated_at"),
		ConditionExpression: aws.String("attribute_exists(id) AND #status = :open"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
			"#items":  "items",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":title":      &types.AttributeValueMemberS{Value: title},
			":items":      itemsAV,
			":updated_at": updatedAt,
			":open":       &types.AttributeValueMemberS{Value: string(models.DraftOpen)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, storage.ErrDraftNotEditable
		}
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	var record draftRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	draft, err := record.toModel()
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// MarkDraftApplied records the terminal applied status and the committing
// batch key. Re-marking an already applied draft is a harmless overwrite, so
// the bookkeeping repair path can retry it.
func (s *Store) MarkDraftApplied(ctx context.Context, userID, draftID, batchKey string) error {
	updatedAt, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.DraftsTableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: draftID},
		},
		UpdateExpression:    aws.String("SET #status = :applied, applied_batch_key = :batch_key, updated_at = :updated_at"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":applied":    &types.AttributeValueMemberS{Value: string(models.DraftApplied)},
			":batch_key":  &types.AttributeValueMemberS{Value: batchKey},
			":updated_at": updatedAt,
		},
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to mark draft applied: %w", err)
	}
	return nil
}

// MarkDraftDiscarded records the terminal discarded status. The write is
// conditioned on the draft still being open; a draft already in a terminal
// status is left untouched and the call succeeds.
func (s *Store) MarkDraftDiscarded(ctx context.Context, userID, draftID string) error {
	updatedAt, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.DraftsTableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: draftID},
		},
		UpdateExpression:    aws.String("SET #status = :discarded, updated_at = :updated_at"),
		ConditionExpression: aws.String("attribute_exists(id) AND #status = :open"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":discarded":  &types.AttributeValueMemberS{Value: string(models.DraftDiscarded)},
			":open":       &types.AttributeValueMemberS{Value: string(models.DraftOpen)},
			":updated_at": updatedAt,
		},
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			// Either absent or already terminal. Resolve which.
			if _, getErr := s.GetDraft(ctx, userID, draftID); getErr != nil {
				return getErr
			}
			return nil
		}
		return fmt.Errorf("failed to mark draft discarded: %w", err)
	}
	return nil
}

func unmarshalDrafts(items []map[string]types.AttributeValue) ([]models.Draft, error) {
	drafts := make([]models.Draft, 0, len(items))
	for _, item := range items {
		var record draftRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
		}
		draft, err := record.toModel()
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}
