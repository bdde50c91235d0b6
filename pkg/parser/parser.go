package parser

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the model backend cannot produce a usable
// response. Callers surface it as a temporary outage, never as caller error.
var ErrUnavailable = errors.New("parser unavailable")

// ParseResult is the model's best-effort reading of free text. Items are
// untyped maps on purpose: nothing here is trusted, and every item must pass
// the draft validator before it is persisted.
type ParseResult struct {
	Items    []map[string]any `json:"items"`
	Title    string           `json:"title,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Intent classifies what a finance question asks for.
type Intent string

const (
	IntentTotal           Intent = "total"
	IntentCategory        Intent = "category"
	IntentBiggestCategory Intent = "biggestCategory"
)

// QuestionInterpretation is the model's reading of a finance question. The
// period is never taken from the model; it is resolved in-core from the
// question text itself.
type QuestionInterpretation struct {
	Intent   Intent `json:"intent"`
	Category string `json:"category,omitempty"`
}

// TextParser defines the interface to the external language-model parser.
type TextParser interface {
	// ParseExpenses extracts candidate ledger items from free text.
	ParseExpenses(ctx context.Context, text, lang string) (*ParseResult, error)

	// InterpretQuestion classifies a finance question into an intent and an
	// optional category.
	InterpretQuestion(ctx context.Context, question string) (*QuestionInterpretation, error)
}
