package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/kvasylenko/finance-assistant/pkg/config"
	"github.com/kvasylenko/finance-assistant/pkg/drafts"
	"github.com/kvasylenko/finance-assistant/pkg/events"
	"github.com/kvasylenko/finance-assistant/pkg/handlers"
	"github.com/kvasylenko/finance-assistant/pkg/parser"
	dydbstore "github.com/kvasylenko/finance-assistant/pkg/storage/dynamodb"
	"github.com/kvasylenko/finance-assistant/pkg/summary"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	// AWS Session
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store := dydbstore.New(dbClient, cfg.TransactionsTable, cfg.DraftsTable, cfg.BatchesTable)
	store.MaxBatchRows = cfg.MaxDraftItems

	var publisher events.Publisher = &events.NoOpPublisher{}
	if cfg.EventsQueueURL != "" {
		sqsClient := sqs.NewFromConfig(awsCfg)
		publisher = events.NewSQSPublisher(sqsClient, cfg.EventsQueueURL)
	} else {
		logger.Warn("EVENTS_QUEUE_URL not set, batch events disabled")
	}

	var textParser parser.TextParser
	if cfg.ParserEnabled {
		textParser, err = parser.NewGeminiParser(ctx, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("failed to initialize parser: %v", err)
		}
	} else {
		logger.Warn("parser disabled, AI endpoints will return 503")
	}

	draftService := drafts.NewService(store, publisher, logger, cfg.MaxDraftItems)
	engine := summary.NewEngine(store)

	handler := handlers.NewHandler(draftService, store, engine, textParser, logger)
	router := handlers.NewRouter(handler, logger)

	logger.Info("starting server", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
