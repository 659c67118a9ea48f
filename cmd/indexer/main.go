package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/akshata29/corporateactions-sub000/db"
	"github.com/akshata29/corporateactions-sub000/internal/model"
	"github.com/akshata29/corporateactions-sub000/internal/repository"
	"github.com/akshata29/corporateactions-sub000/pkg/llm"
	"github.com/akshata29/corporateactions-sub000/pkg/search"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const (
	popTimeout       = 5 * time.Second
	maxIndexAttempts = 3
)

// Consumes event IDs from the index queue, embeds each event and upserts
// it into the vector index. Events that keep failing move to the dead
// letter queue after maxIndexAttempts tries.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
	apiKey := os.Getenv("AZURE_OPENAI_API_KEY")
	if endpoint == "" || apiKey == "" {
		log.Fatalf("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY are required for indexing")
	}

	embedder := llm.NewOpenAIClient(endpoint, apiKey,
		envOrDefault("AZURE_OPENAI_CHAT_DEPLOYMENT", "gpt-4o"),
		envOrDefault("AZURE_OPENAI_EMBED_DEPLOYMENT", "text-embedding-ada-002"))

	searchEndpoint := os.Getenv("AZURE_SEARCH_ENDPOINT")
	searchKey := os.Getenv("AZURE_SEARCH_API_KEY")
	if searchEndpoint == "" || searchKey == "" {
		log.Fatalf("AZURE_SEARCH_ENDPOINT and AZURE_SEARCH_API_KEY are required for indexing")
	}

	index := search.NewAzureClient(searchEndpoint, searchKey, envOrDefault("AZURE_SEARCH_INDEX", "corporate-actions"))

	repo := repository.NewEventRepository(db.DB)

	requeuePending(repo)

	slog.Info("indexer started", "queue", db.IndexQueueKey)

	for {
		eventID, err := db.PopFromQueue(db.IndexQueueKey, popTimeout)
		if err == redis.Nil {
			continue
		}

		if err != nil {
			slog.Error("error popping from queue", "error", err)
			time.Sleep(popTimeout)
			continue
		}

		if err := indexEvent(repo, embedder, index, eventID); err != nil {
			slog.Error("error indexing event", "error", err, "event_id", eventID)
			retryOrFail(repo, eventID, err)
			continue
		}

		slog.Info("event indexed", "event_id", eventID)
	}
}

// requeuePending pushes events left unindexed by a previous run back onto
// the queue. Upserts are idempotent, so a duplicate queue entry is harmless.
func requeuePending(repo *repository.EventRepository) {
	ids, err := repo.ListPendingIndex(500)
	if err != nil {
		slog.Error("error listing pending events", "error", err)
		return
	}

	for _, id := range ids {
		if err := db.PushToQueue(db.IndexQueueKey, id); err != nil {
			slog.Error("error re-queueing pending event", "error", err, "event_id", id)
			return
		}
	}

	if len(ids) > 0 {
		slog.Info("re-queued pending events", "count", len(ids))
	}
}

func indexEvent(repo *repository.EventRepository, embedder llm.Embedder, index search.Index, eventID string) error {
	event, err := repo.GetByID(eventID)
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}

	if event == nil {
		slog.Warn("queued event no longer exists, skipping", "event_id", eventID)
		return nil
	}

	content := strings.Join([]string{event.IssuerName, event.EventType, event.Symbol, event.Description}, " ")

	vector, err := embedder.Embed(context.Background(), content)
	if err != nil {
		return fmt.Errorf("embed event: %w", err)
	}

	doc := search.IndexDocument{
		Document: search.Document{
			EventID:          event.EventID,
			EventType:        event.EventType,
			Symbol:           event.Symbol,
			CompanyName:      event.IssuerName,
			Status:           event.Status,
			Description:      event.Description,
			AnnouncementDate: event.AnnouncementDate.Format("2006-01-02"),
			EventDetails:     event.EventDetails,
			DataSource:       event.DataSource,
		},
		ContentVector: vector,
	}

	if err := index.Upsert(context.Background(), []search.IndexDocument{doc}); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	return repo.UpdateIndexStatus(eventID, model.IndexDone)
}

// retryOrFail re-queues the event until it has failed maxIndexAttempts
// times, then marks it failed and parks it on the dead letter queue.
func retryOrFail(repo *repository.EventRepository, eventID string, indexErr error) {
	if err := repo.SaveIndexError(eventID, indexErr.Error()); err != nil {
		slog.Error("error recording index error", "error", err, "event_id", eventID)
	}

	count, err := repo.GetIndexErrorCount(eventID)
	if err != nil {
		slog.Error("error counting index errors", "error", err, "event_id", eventID)
		return
	}

	if count < maxIndexAttempts {
		if err := db.PushToQueue(db.IndexQueueKey, eventID); err != nil {
			slog.Error("error re-queueing event", "error", err, "event_id", eventID)
		}
		return
	}

	slog.Error("event failed too many times, moving to dead letter queue", "event_id", eventID, "attempts", count)

	if err := repo.UpdateIndexStatus(eventID, model.IndexFailed); err != nil {
		slog.Error("error marking event failed", "error", err, "event_id", eventID)
	}

	if err := db.PushToQueue(db.IndexDeadLetterKey, eventID); err != nil {
		slog.Error("error pushing to dead letter queue", "error", err, "event_id", eventID)
	}
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
