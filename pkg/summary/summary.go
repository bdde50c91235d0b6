package summary

import (
	"context"
	"sort"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/kvasylenko/finance-assistant/pkg/models"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
)

const dayLayout = "2006-01-02"

// Engine computes group-by/sum aggregates over the ledger for an absolute
// date range. It is stateless; all data comes from the reader per call.
type Engine struct {
	reader storage.LedgerReader
}

// NewEngine creates a new aggregation Engine.
func NewEngine(reader storage.LedgerReader) *Engine {
	return &Engine{reader: reader}
}

// Summarize computes income and expense totals, balance, and by-category and
// by-day sums over the inclusive [from, to] range. The totals are always
// computed against their own types so Balance stays meaningful; typeFilter
// (empty for both) restricts only the breakdown lists. Empty groups are
// omitted, never returned as zero rows.
func (e *Engine) Summarize(ctx context.Context, userID, from, to string, typeFilter models.TransactionType) (*models.Summary, error) {
	transactions, err := e.reader.QueryTransactionsByDate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	incomeTotal := decimal.Zero
	expenseTotal := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	byDate := map[string]decimal.Decimal{}

	for _, tx := range transactions {
		switch tx.Type {
		case models.Income:
			incomeTotal = incomeTotal.Add(tx.Amount)
		case models.Expense:
			expenseTotal = expenseTotal.Add(tx.Amount)
		}

		if typeFilter != "" && tx.Type != typeFilter {
			continue
		}
		day := tx.Date.Time.Format(dayLayout)
		byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
		byDate[day] = byDate[day].Add(tx.Amount)
	}

	fromDay, err := parseDay(from)
	if err != nil {
		return nil, err
	}
	toDay, err := parseDay(to)
	if err != nil {
		return nil, err
	}

	return &models.Summary{
		From:         fromDay,
		To:           toDay,
		IncomeTotal:  incomeTotal,
		ExpenseTotal: expenseTotal,
		Balance:      incomeTotal.Sub(expenseTotal),
		ByCategory:   categoryRows(byCategory),
		ByDate:       dateRows(byDate),
	}, nil
}

// categoryRows flattens the category sums into a deterministic ascending
// order by category id.
func categoryRows(sums map[string]decimal.Decimal) []models.CategorySum {
	rows := make([]models.CategorySum, 0, len(sums))
	for category, amount := range sums {
		rows = append(rows, models.CategorySum{Category: category, Amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// dateRows flattens the per-day sums into chronological order.
func dateRows(sums map[string]decimal.Decimal) []models.DateSum {
	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]models.DateSum, 0, len(days))
	for _, day := range days {
		parsed, err := parseDay(day)
		if err != nil {
			continue
		}
		rows = append(rows, models.DateSum{Date: parsed, Amount: sums[day]})
	}
	return rows
}

func parseDay(s string) (openapi_types.Date, error) {
	day, err := time.Parse(dayLayout, s)
	if err != nil {
		return openapi_types.Date{}, models.NewValidationError("date", "must be a YYYY-MM-DD date")
	}
	return openapi_types.Date{Time: day}, nil
}
