package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/akshata29/corporateactions-sub000/db"
	"github.com/akshata29/corporateactions-sub000/internal/repository"
	"github.com/akshata29/corporateactions-sub000/internal/tools"
	"github.com/akshata29/corporateactions-sub000/pkg/llm"
	"github.com/akshata29/corporateactions-sub000/pkg/market"
	"github.com/akshata29/corporateactions-sub000/pkg/rag"
	"github.com/akshata29/corporateactions-sub000/pkg/search"
	"github.com/akshata29/corporateactions-sub000/pkg/websearch"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

func main() {

	godotenv.Load()

	// stdout carries the MCP protocol, logs go to stderr
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.ConnectRedis(); err != nil {
		slog.Warn("redis unavailable, caches disabled", "error", err)
	} else {
		defer db.CloseRedis()
	}

	eventRepo := repository.NewEventRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB, db.Redis)
	inquiryRepo := repository.NewInquiryRepository(db.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(db.DB, db.Redis)

	chat, embedder := buildProviders()
	index := buildSearchIndex()

	searcher := search.NewSearcher(embedder, index)
	pipeline := rag.NewPipeline(searcher, rag.NewComposer(chat), commentRepo)

	registry := tools.Registry{
		Pipeline:      pipeline,
		Events:        eventRepo,
		Comments:      commentRepo,
		Inquiries:     inquiryRepo,
		Subscriptions: subscriptionRepo,
		DBPing:        db.Ping,
	}

	if apiKey := os.Getenv("FINNHUB_API_KEY"); apiKey != "" {
		registry.Market = market.NewFinnhubClient(apiKey)
	} else {
		slog.Warn("FINNHUB_API_KEY not set, financial and news search disabled")
	}

	if apiKey := os.Getenv("TAVILY_API_KEY"); apiKey != "" {
		registry.Web = websearch.NewClient(apiKey)
	} else {
		slog.Warn("TAVILY_API_KEY not set, web search disabled")
	}

	if db.Redis != nil {
		registry.RedisPing = func(ctx context.Context) error {
			return db.Redis.Ping(ctx).Err()
		}
	}

	if index != nil {
		registry.IndexPing = index.Ping
	}

	s := server.NewMCPServer(
		"corporate-actions",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registry.Install(s)

	slog.Info("starting MCP server on stdio")

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("error serving MCP: %v", err)
	}
}

func buildProviders() (llm.ChatClient, llm.Embedder) {
	endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
	apiKey := os.Getenv("AZURE_OPENAI_API_KEY")

	if endpoint != "" && apiKey != "" {
		client := llm.NewOpenAIClient(endpoint, apiKey,
			envOrDefault("AZURE_OPENAI_CHAT_DEPLOYMENT", "gpt-4o"),
			envOrDefault("AZURE_OPENAI_EMBED_DEPLOYMENT", "text-embedding-ada-002"))
		return client, client
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		slog.Warn("using anthropic chat provider; embeddings degrade to zero vectors")
		return llm.NewAnthropicClient(apiKey), nil
	}

	slog.Warn("no chat provider configured; rag_query returns error results")
	return nil, nil
}

func buildSearchIndex() search.Index {
	endpoint := os.Getenv("AZURE_SEARCH_ENDPOINT")
	apiKey := os.Getenv("AZURE_SEARCH_API_KEY")

	if endpoint == "" || apiKey == "" {
		slog.Warn("search index not configured; retrieval degrades to sample data")
		return nil
	}

	return search.NewAzureClient(endpoint, apiKey, envOrDefault("AZURE_SEARCH_INDEX", "corporate-actions"))
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
