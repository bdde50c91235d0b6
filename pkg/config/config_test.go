package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "transactions", cfg.TransactionsTable)
	assert.Equal(t, "drafts", cfg.DraftsTable)
	assert.Equal(t, "import_batches", cfg.BatchesTable)
	assert.Equal(t, 99, cfg.MaxDraftItems)
	assert.Equal(t, 15*time.Minute, cfg.StaleDraftAge)
	assert.True(t, cfg.ParserEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_DRAFT_ITEMS", "10")
	t.Setenv("PARSER_ENABLED", "false")
	t.Setenv("STALE_DRAFT_AGE", "1h")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10, cfg.MaxDraftItems)
	assert.False(t, cfg.ParserEnabled)
	assert.Equal(t, time.Hour, cfg.StaleDraftAge)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"Bad Port", func(cfg *Config) { cfg.Port = "not-a-port" }},
		{"Port Out Of Range", func(cfg *Config) { cfg.Port = "70000" }},
		{"Empty Transactions Table", func(cfg *Config) { cfg.TransactionsTable = "" }},
		{"Empty Drafts Table", func(cfg *Config) { cfg.DraftsTable = "" }},
		{"Too Many Draft Items", func(cfg *Config) { cfg.MaxDraftItems = 100 }},
		{"Zero Draft Items", func(cfg *Config) { cfg.MaxDraftItems = 0 }},
		{"Missing Model", func(cfg *Config) { cfg.GeminiModel = "" }},
		{"Tiny Stale Age", func(cfg *Config) { cfg.StaleDraftAge = time.Second }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
