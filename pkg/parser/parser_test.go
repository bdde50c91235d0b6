package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanModelJSON(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"Raw Object", `{"items": []}`, `{"items": []}`},
		{"Fenced Object", "```json\n{\"items\": []}\n```", `{"items": []}`},
		{"Fenced Without Language", "```\n{\"items\": []}\n```", `{"items": []}`},
		{"Array With Surrounding Text", "Here you go:\n[{\"amount\": 10}]\nEnjoy!", `[{"amount": 10}]`},
		{"Object Containing Array", `{"items": [{"amount": 10}]}`, `{"items": [{"amount": 10}]}`},
		{"Array Containing Objects", `[{"a": 1}, {"b": 2}]`, `[{"a": 1}, {"b": 2}]`},
		{"Leading Prose Before Object", "Sure! {\"intent\": \"total\"}", `{"intent": "total"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanModelJSON(tc.raw))
		})
	}
}

func TestDecodeParseResult(t *testing.T) {
	t.Run("Object Shape", func(t *testing.T) {
		raw := "```json\n{\"items\": [{\"date\": \"2024-03-14\", \"amount\": 120.5, \"category\": \"groceries\", \"description\": \"shop\", \"type\": \"expense\", \"currency\": \"\"}], \"title\": \"shopping\"}\n```"

		result, err := decodeParseResult(raw)

		require.NoError(t, err)
		assert.Equal(t, "shopping", result.Title)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "groceries", result.Items[0]["category"])
	})

	t.Run("Bare Array Shape", func(t *testing.T) {
		raw := `[{"amount": 10, "category": "misc"}]`

		result, err := decodeParseResult(raw)

		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "misc", result.Items[0]["category"])
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := decodeParseResult("the user spent some money")

		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestDecodeInterpretation(t *testing.T) {
	t.Run("Category Question", func(t *testing.T) {
		interpretation, err := decodeInterpretation(`{"intent": "category", "category": "groceries"}`)

		require.NoError(t, err)
		assert.Equal(t, IntentCategory, interpretation.Intent)
		assert.Equal(t, "groceries", interpretation.Category)
	})

	t.Run("Unknown Intent Falls Back To Total", func(t *testing.T) {
		interpretation, err := decodeInterpretation(`{"intent": "forecast"}`)

		require.NoError(t, err)
		assert.Equal(t, IntentTotal, interpretation.Intent)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := decodeInterpretation("no idea")

		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
