package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
)

const transactionsByDateIndex = "user_id-date-index"

// GetTransaction retrieves one ledger row by id for the given owner.
func (s *Store) GetTransaction(ctx context.Context, userID, txID string) (*models.Transaction, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: txID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var record transactionRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	tx, err := record.toModel()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListTransactions retrieves the owner's rows matching the filter, most recent
// date first, via the date index.
func (s *Store) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	keyCondition := "user_id = :user_id"
	values := map[string]types.AttributeValue{
		":user_id": &types.AttributeValueMemberS{Value: userID},
	}
	switch {
	case filter.From != "" && filter.To != "":
		keyCondition += " AND #date BETWEEN :from AND :to"
		values[":from"] = &types.AttributeValueMemberS{Value: filter.From}
		values[":to"] = &types.AttributeValueMemberS{Value: filter.To}
	case filter.From != "":
		keyCondition += " AND #date >= :from"
		values[":from"] = &types.AttributeValueMemberS{Value: filter.From}
	case filter.To != "":
		keyCondition += " AND #date <= :to"
		values[":to"] = &types.AttributeValueMemberS{Value: filter.To}
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(transactionsByDateIndex),
		KeyConditionExpression: aws.String(keyCondition),
		ExpressionAttributeNames: map[string]string{
			"#date": "date",
		},
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(false),
	}
	if filter.Category != "" {
		input.FilterExpression = aws.String("category = :category")
		values[":category"] = &types.AttributeValueMemberS{Value: filter.Category}
	}
	if filter.Limit > 0 {
		input.Limit = aws.Int32(filter.Limit)
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return unmarshalTransactions(result.Items)
}

// QueryTransactionsByDate retrieves every row dated inside the inclusive
// [from, to] range, ascending by date. It pages through the whole range since
// the aggregation engine needs all of it.
func (s *Store) QueryTransactionsByDate(ctx context.Context, userID, from, to string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	var startKey map[string]types.AttributeValue
	for {
		result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.TransactionsTableName),
			IndexName:              aws.String(transactionsByDateIndex),
			KeyConditionExpression: aws.String("user_id = :user_id AND #date BETWEEN :from AND :to"),
			ExpressionAttributeNames: map[string]string{
				"#date": "date",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":user_id": &types.AttributeValueMemberS{Value: userID},
				":from":    &types.AttributeValueMemberS{Value: from},
				":to":      &types.AttributeValueMemberS{Value: to},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query transactions by date: %w", err)
		}

		page, err := unmarshalTransactions(result.Items)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, page...)

		if result.LastEvaluatedKey == nil {
			return transactions, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// UpdateTransaction applies the non-nil fields of patch to an existing row.
func (s *Store) UpdateTransaction(ctx context.Context, userID, txID string, patch models.TransactionPatch) (*models.Transaction, error) {
	assignments := []string{"updated_at = :updated_at"}
	names := map[string]string{}
	updatedAt, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	values := map[string]types.AttributeValue{
		":updated_at": updatedAt,
	}

	if patch.Date != nil {
		assignments = append(assignments, "#date = :date")
		names["#date"] = "date"
		values[":date"] = &types.AttributeValueMemberS{Value: patch.Date.Time.Format(dayLayout)}
	}
	if patch.Amount != nil {
		assignments = append(assignments, "amount = :amount")
		values[":amount"] = &types.AttributeValueMemberS{Value: patch.Amount.String()}
	}
	if patch.Currency != nil {
		assignments = append(assignments, "currency = :currency")
		values[":currency"] = &types.AttributeValueMemberS{Value: *patch.Currency}
	}
	if patch.Category != nil {
		assignments = append(assignments, "category = :category")
		values[":category"] = &types.AttributeValueMemberS{Value: *patch.Category}
	}
	if patch.Description != nil {
		assignments = append(assignments, "description = :description")
		values[":description"] = &types.AttributeValueMemberS{Value: *patch.Description}
	}
	if patch.Type != nil {
		assignments = append(assignments, "#type = :type")
		names["#type"] = "type"
		values[":type"] = &types.AttributeValueMemberS{Value: string(*patch.Type)}
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: txID},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(assignments, ", ")),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	var record transactionRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	tx, err := record.toModel()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// DeleteTransaction removes one ledger row owned by the user.
func (s *Store) DeleteTransaction(ctx context.Context, userID, txID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
			"id":      &types.AttributeValueMemberS{Value: txID},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func unmarshalTransactions(items []map[string]types.AttributeValue) ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0, len(items))
	for _, item := range items {
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
	return transactions, nil
}
