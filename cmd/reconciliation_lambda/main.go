package main

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/kvasylenko/finance-assistant/pkg/config"
	"github.com/kvasylenko/finance-assistant/pkg/drafts"
	"github.com/kvasylenko/finance-assistant/pkg/storage"
	dydbstore "github.com/kvasylenko/finance-assistant/pkg/storage/dynamodb"
)

var store storage.Storage
var cfg *config.Config

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg = config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store = dydbstore.New(dbClient, cfg.TransactionsTable, cfg.DraftsTable, cfg.BatchesTable)
}

// HandleRequest is triggered by an EventBridge Schedule. It repairs drafts
// whose batch was committed but whose status bookkeeping was lost: the
// ImportBatch receipt is the source of truth, so any open draft with a
// receipt under its derived key is really applied.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting reconciliation of stale open drafts...")

	staleDrafts, err := store.ListStaleOpenDrafts(ctx, cfg.StaleDraftAge)
	if err != nil {
		log.Printf("ERROR: failed to list stale drafts: %v", err)
		return err
	}

	if len(staleDrafts) == 0 {
		log.Println("No stale open drafts found.")
		return nil
	}

	log.Printf("Found %d stale open drafts. Checking for committed batches...", len(staleDrafts))

	repaired := 0
	for _, draft := range staleDrafts {
		batchKey := drafts.BatchKeyForDraft(draft.Id)
		if _, err := store.GetImportBatch(ctx, draft.UserId, batchKey); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Never applied; the draft is just old. Leave it alone.
				continue
			}
			log.Printf("ERROR: failed to check batch for draft %s: %v", draft.Id, err)
			// Continue to the next draft, don't let one failure stop the whole batch.
			continue
		}

		if err := store.MarkDraftApplied(ctx, draft.UserId, draft.Id, batchKey); err != nil {
			log.Printf("ERROR: failed to repair draft %s: %v", draft.Id, err)
			continue
		}
		log.Printf("Repaired draft %s: marked applied under %s", draft.Id, batchKey)
		repaired++
	}

	log.Printf("Reconciliation finished. Repaired %d drafts.", repaired)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
