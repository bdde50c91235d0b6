package dynamodb

import (
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/kvasylenko/finance-assistant/pkg/models"
)

const dayLayout = "2006-01-02"

// transactionRecord is the DynamoDB shape of a ledger row. Dates are stored
// as YYYY-MM-DD strings so the user_id-date-index can range over them, and
// amounts as decimal strings to avoid float drift.
type transactionRecord struct {
	UserId      string    `dynamodbav:"user_id"`
	Id          string    `dynamodbav:"id"`
	Date        string    `dynamodbav:"date"`
	Amount      string    `dynamodbav:"amount"`
	Currency    string    `dynamodbav:"currency"`
	Category    string    `dynamodbav:"category"`
	Description string    `dynamodbav:"description"`
	Source      string    `dynamodbav:"source"`
	Type        string    `dynamodbav:"type"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"`
}

type draftItemRecord struct {
	Date        string `dynamodbav:"date"`
	Amount      string `dynamodbav:"amount"`
	Currency    string `dynamodbav:"currency"`
	Category    string `dynamodbav:"category"`
	Description string `dynamodbav:"description"`
	Source      string `dynamodbav:"source"`
	Type        string `dynamodbav:"type"`
}

type draftRecord struct {
	UserId          string            `dynamodbav:"user_id"`
	Id              string            `dynamodbav:"id"`
	Source          string            `dynamodbav:"source"`
	Lang            string            `dynamodbav:"lang,omitempty"`
	Title           string            `dynamodbav:"title,omitempty"`
	Status          string            `dynamodbav:"status"`
	Items           []draftItemRecord `dynamodbav:"items"`
	AppliedBatchKey string            `dynamodbav:"applied_batch_key,omitempty"`
	CreatedAt       time.Time         `dynamodbav:"created_at"`
	UpdatedAt       time.Time         `dynamodbav:"updated_at"`
}

type batchRecord struct {
	UserId         string    `dynamodbav:"user_id"`
	BatchKey       string    `dynamodbav:"batch_key"`
	TransactionIds []string  `dynamodbav:"transaction_ids"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
}

func newTransactionRecord(tx models.Transaction) transactionRecord {
	return transactionRecord{
		UserId:      tx.UserId,
		Id:          tx.Id,
		Date:        tx.Date.Time.Format(dayLayout),
		Amount:      tx.Amount.String(),
		Currency:    tx.Currency,
		Category:    tx.Category,
		Description: tx.Description,
		Source:      tx.Source,
		Type:        string(tx.Type),
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func (r transactionRecord) toModel() (models.Transaction, error) {
	day, err := time.Parse(dayLayout, r.Date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid stored date %q: %w", r.Date, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid stored amount %q: %w", r.Amount, err)
	}
	return models.Transaction{
		UserId:      r.UserId,
		Id:          r.Id,
		Date:        openapi_types.Date{Time: day},
		Amount:      amount,
		Currency:    r.Currency,
		Category:    r.Category,
		Description: r.Description,
		Source:      r.Source,
		Type:        models.TransactionType(r.Type),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func newDraftRecord(d models.Draft) draftRecord {
	items := make([]draftItemRecord, len(d.Items))
	for i, item := range d.Items {
		items[i] = draftItemRecord{
			Date:        item.Date.Time.Format(dayLayout),
			Amount:      item.Amount.String(),
			Currency:    item.Currency,
			Category:    item.Category,
			Description: item.Description,
			Source:      item.Source,
			Type:        string(item.Type),
		}
	}
	return draftRecord{
		UserId:          d.UserId,
		Id:              d.Id,
		Source:          d.Source,
		Lang:            d.Lang,
		Title:           d.Title,
		Status:          string(d.Status),
		Items:           items,
		AppliedBatchKey: d.AppliedBatchKey,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func newDraftItemRecords(items []models.DraftItem) []draftItemRecord {
	records := make([]draftItemRecord, len(items))
	for i, item := range items {
		records[i] = draftItemRecord{
			Date:        item.Date.Time.Format(dayLayout),
			Amount:      item.Amount.String(),
			Currency:    item.Currency,
			Category:    item.Category,
			Description: item.Description,
			Source:      item.Source,
			Type:        string(item.Type),
		}
	}
	return records
}

func (r draftRecord) toModel() (models.Draft, error) {
	items := make([]models.DraftItem, len(r.Items))
	for i, rec := range r.Items {
		day, err := time.Parse(dayLayout, rec.Date)
		if err != nil {
			return models.Draft{}, fmt.Errorf("invalid stored item date %q: %w", rec.Date, err)
		}
		amount, err := decimal.NewFromString(rec.Amount)
		if err != nil {
			return models.Draft{}, fmt.Errorf("invalid stored item amount %q: %w", rec.Amount, err)
		}
		items[i] = models.DraftItem{
			Date:        openapi_types.Date{Time: day},
			Amount:      amount,
			Currency:    rec.Currency,
			Category:    rec.Category,
			Description: rec.Description,
			Source:      rec.Source,
			Type:        models.TransactionType(rec.Type),
		}
	}
	return models.Draft{
		UserId:          r.UserId,
		Id:              r.Id,
		Source:          r.Source,
		Lang:            r.Lang,
		Title:           r.Title,
		Status:          models.DraftStatus(r.Status),
		Items:           items,
		AppliedBatchKey: r.AppliedBatchKey,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func newBatchRecord(b models.ImportBatch) batchRecord {
	return batchRecord{
		UserId:         b.UserId,
		BatchKey:       b.BatchKey,
		TransactionIds: b.TransactionIds,
		CreatedAt:      b.CreatedAt,
	}
}

func (r batchRecord) toModel() models.ImportBatch {
	return models.ImportBatch{
		UserId:         r.UserId,
		BatchKey:       r.BatchKey,
		TransactionIds: r.TransactionIds,
		CreatedAt:      r.CreatedAt,
	}
}
