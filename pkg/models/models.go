package models

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a money movement. Amounts are always
// positive; income vs expense is expressed here, never as a negative amount.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DraftStatus defines the possible states of a draft batch.
type DraftStatus string

const (
	// DraftOpen is the only state in which items and title are mutable.
	DraftOpen DraftStatus = "draft"
	// DraftApplied is terminal: the draft's items were committed to the ledger.
	DraftApplied DraftStatus = "applied"
	// DraftDiscarded is terminal: the draft was thrown away without committing.
	DraftDiscarded DraftStatus = "discarded"
)

// Transaction represents a single committed ledger row, owned by one user.
// Identity is immutable once created; individual fields may be edited in place
// by the owner.
type Transaction struct {
	Id          string             `json:"id"`
	UserId      string             `json:"userId"`
	Date        openapi_types.Date `json:"date"`
	Amount      decimal.Decimal    `json:"amount"`
	Currency    string             `json:"currency"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Source      string             `json:"source"`
	Type        TransactionType    `json:"type"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// DraftItem is a candidate ledger entry held inside a draft. Same shape and
// validation rules as a Transaction, but not yet a ledger row.
type DraftItem struct {
	Date        openapi_types.Date `json:"date"`
	Amount      decimal.Decimal    `json:"amount"`
	Currency    string             `json:"currency"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Source      string             `json:"source"`
	Type        TransactionType    `json:"type"`
}

// Draft is a pending, editable batch of candidate ledger entries.
type Draft struct {
	Id              string      `json:"id"`
	UserId          string      `json:"userId"`
	Source          string      `json:"source"`
	Lang            string      `json:"lang,omitempty"`
	Title           string      `json:"title,omitempty"`
	Status          DraftStatus `json:"status"`
	Items           []DraftItem `json:"items"`
	AppliedBatchKey string      `json:"appliedBatchKey,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// DraftSummary is a listing row: the draft without its item bodies.
type DraftSummary struct {
	Id              string      `json:"id"`
	UserId          string      `json:"userId"`
	Source          string      `json:"source"`
	Lang            string      `json:"lang,omitempty"`
	Title           string      `json:"title,omitempty"`
	Status          DraftStatus `json:"status"`
	ItemsCount      int         `json:"itemsCount"`
	AppliedBatchKey string      `json:"appliedBatchKey,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ImportBatch is the durable commit receipt: proof that a batch key has been
// committed, and to which ledger rows. At most one exists per (owner, key).
type ImportBatch struct {
	UserId         string    `json:"userId"`
	BatchKey       string    `json:"batchKey"`
	TransactionIds []string  `json:"transactionIds"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CommitResult reports the outcome of an idempotent batch commit. Duplicate is
// true when a previous commit already claimed the batch key; the returned rows
// are then the previously committed ones, in their original order.
type CommitResult struct {
	Duplicate      bool          `json:"duplicate"`
	TransactionIds []string      `json:"transactionIds"`
	Transactions   []Transaction `json:"items"`
}

// TransactionPatch carries an in-place edit of a ledger row. Nil fields are
// left untouched.
type TransactionPatch struct {
	Date        *openapi_types.Date `json:"date,omitempty"`
	Amount      *decimal.Decimal    `json:"amount,omitempty"`
	Currency    *string             `json:"currency,omitempty"`
	Category    *string             `json:"category,omitempty"`
	Description *string             `json:"description,omitempty"`
	Type        *TransactionType    `json:"type,omitempty"`
}

// CategorySum is one by-category aggregation row.
type CategorySum struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DateSum is one by-calendar-day aggregation row.
type DateSum struct {
	Date   openapi_types.Date `json:"date"`
	Amount decimal.Decimal    `json:"amount"`
}

// Summary holds the aggregation result for an inclusive date range.
// IncomeTotal and ExpenseTotal are always computed against their own types so
// Balance stays meaningful regardless of the type filter applied to the
// breakdown lists.
type Summary struct {
	From         openapi_types.Date `json:"from"`
	To           openapi_types.Date `json:"to"`
	IncomeTotal  decimal.Decimal    `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal    `json:"expenseTotal"`
	Balance      decimal.Decimal    `json:"balance"`
	ByCategory   []CategorySum      `json:"byCategory"`
	ByDate       []DateSum          `json:"byDate"`
}
