package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// DynamoDB tables
	TransactionsTable string
	DraftsTable       string
	BatchesTable      string

	// Events
	EventsQueueURL string

	// Parser
	GeminiModel   string
	ParserEnabled bool

	// Drafts
	MaxDraftItems int

	// Reconciliation
	StaleDraftAge time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		TransactionsTable: getEnv("TRANSACTIONS_TABLE_NAME", "transactions"),
		DraftsTable:       getEnv("DRAFTS_TABLE_NAME", "drafts"),
		BatchesTable:      getEnv("IMPORT_BATCHES_TABLE_NAME", "import_batches"),

		EventsQueueURL: getEnv("EVENTS_QUEUE_URL", ""),

		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ParserEnabled: getEnvBool("PARSER_ENABLED", true),

		MaxDraftItems: getEnvInt("MAX_DRAFT_ITEMS", 99),

		StaleDraftAge: getEnvDuration("STALE_DRAFT_AGE", 15*time.Minute),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.TransactionsTable == "" {
		errors = append(errors, "transactions table name cannot be empty")
	}
	if c.DraftsTable == "" {
		errors = append(errors, "drafts table name cannot be empty")
	}
	if c.BatchesTable == "" {
		errors = append(errors, "import batches table name cannot be empty")
	}

	if c.ParserEnabled && c.GeminiModel == "" {
		errors = append(errors, "Gemini model name cannot be empty when the parser is enabled")
	}

	// A TransactWriteItems unit holds 100 items and one goes to the receipt.
	if c.MaxDraftItems < 1 || c.MaxDraftItems > 99 {
		errors = append(errors, fmt.Sprintf("invalid max draft items %d: must be between 1 and 99", c.MaxDraftItems))
	}

	if c.StaleDraftAge < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid stale draft age %v: must be at least 1 minute", c.StaleDraftAge))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
