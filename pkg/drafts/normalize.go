package drafts

import (
	"fmt"
	"math"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/kvasylenko/finance-assistant/pkg/models"
)

const (
	// DefaultCurrency is assumed when an item carries no currency code.
	DefaultCurrency = "UAH"
	// DefaultSource tags items with no provenance of their own.
	DefaultSource = "manual"

	dayLayout = "2006-01-02"
)

// NormalizeItems runs untrusted item maps through strict field-by-field
// validation and returns typed draft items with defaults filled in. The same
// path handles manual input and parser output; inferred types are never
// trusted. The first failing field rejects the whole list.
func NormalizeItems(raw []map[string]any, maxItems int) ([]models.DraftItem, error) {
	if len(raw) == 0 {
		return nil, models.NewValidationError("items", "must contain at least one item")
	}
	if len(raw) > maxItems {
		return nil, &models.CapacityError{Count: len(raw), Max: maxItems}
	}

	items := make([]models.DraftItem, len(raw))
	for i, fields := range raw {
		item, err := normalizeItem(i, fields)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func normalizeItem(index int, fields map[string]any) (models.DraftItem, error) {
	path := func(field string) string {
		return fmt.Sprintf("items[%d].%s", index, field)
	}

	dateStr, err := stringField(fields, "date", path("date"))
	if err != nil {
		return models.DraftItem{}, err
	}
	if dateStr == "" {
		return models.DraftItem{}, models.NewValidationError(path("date"), "is required")
	}
	day, parseErr := time.Parse(dayLayout, dateStr)
	if parseErr != nil {
		return models.DraftItem{}, models.NewValidationError(path("date"), "must be a YYYY-MM-DD date")
	}

	amount, err := amountField(fields, path("amount"))
	if err != nil {
		return models.DraftItem{}, err
	}

	currency, err := stringField(fields, "currency", path("currency"))
	if err != nil {
		return models.DraftItem{}, err
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	currency = strings.ToUpper(currency)

	category, err := stringField(fields, "category", path("category"))
	if err != nil {
		return models.DraftItem{}, err
	}
	if category == "" {
		return models.DraftItem{}, models.NewValidationError(path("category"), "must not be empty")
	}

	description, err := stringField(fields, "description", path("description"))
	if err != nil {
		return models.DraftItem{}, err
	}
	if description == "" {
		return models.DraftItem{}, models.NewValidationError(path("description"), "must not be empty")
	}

	source, err := stringField(fields, "source", path("source"))
	if err != nil {
		return models.DraftItem{}, err
	}
	if source == "" {
		source = DefaultSource
	}

	typeStr, err := stringField(fields, "type", path("type"))
	if err != nil {
		return models.DraftItem{}, err
	}
	txType := models.TransactionType(typeStr)
	switch txType {
	case "":
		txType = models.Expense
	case models.Income, models.Expense:
	default:
		return models.DraftItem{}, models.NewValidationError(path("type"), "must be income or expense")
	}

	return models.DraftItem{
		Date:        openapi_types.Date{Time: day},
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		Description: description,
		Source:      source,
		Type:        txType,
	}, nil
}

// stringField reads an optional string field, rejecting non-string values.
// Absent fields come back as the empty string.
func stringField(fields map[string]any, key, path string) (string, error) {
	value, ok := fields[key]
	if !ok || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", models.NewValidationError(path, "must be a string")
	}
	return strings.TrimSpace(s), nil
}

// amountField reads a required positive amount. JSON numbers arrive as
// float64; strings are accepted for lossless decimal input.
func amountField(fields map[string]any, path string) (decimal.Decimal, error) {
	value, ok := fields["amount"]
	if !ok || value == nil {
		return decimal.Decimal{}, models.NewValidationError(path, "is required")
	}

	var amount decimal.Decimal
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, models.NewValidationError(path, "must be a finite number")
		}
		amount = decimal.NewFromFloat(v)
	case int:
		amount = decimal.NewFromInt(int64(v))
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Decimal{}, models.NewValidationError(path, "must be a decimal number")
		}
		amount = parsed
	default:
		return decimal.Decimal{}, models.NewValidationError(path, "must be a number")
	}

	if !amount.IsPositive() {
		return decimal.Decimal{}, models.NewValidationError(path, "must be greater than zero")
	}
	return amount, nil
}

// revalidateItems re-checks already-typed items before a commit, guarding
// against stale or invalid data persisted earlier.
func revalidateItems(items []models.DraftItem) error {
	for i, item := range items {
		path := func(field string) string {
			return fmt.Sprintf("items[%d].%s", i, field)
		}
		if item.Date.Time.IsZero() {
			return models.NewValidationError(path("date"), "is required")
		}
		if !item.Amount.IsPositive() {
			return models.NewValidationError(path("amount"), "must be greater than zero")
		}
		if item.Currency == "" {
			return models.NewValidationError(path("currency"), "must not be empty")
		}
		if item.Category == "" {
			return models.NewValidationError(path("category"), "must not be empty")
		}
		if item.Description == "" {
			return models.NewValidationError(path("description"), "must not be empty")
		}
		if item.Type != models.Income && item.Type != models.Expense {
			return models.NewValidationError(path("type"), "must be income or expense")
		}
	}
	return nil
}
