package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/akshata29/corporateactions-sub000/db"
	"github.com/akshata29/corporateactions-sub000/internal/handler"
	"github.com/akshata29/corporateactions-sub000/internal/repository"
	"github.com/akshata29/corporateactions-sub000/pkg/llm"
	"github.com/akshata29/corporateactions-sub000/pkg/rag"
	"github.com/akshata29/corporateactions-sub000/pkg/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.ConnectRedis(); err != nil {
		slog.Warn("redis unavailable, comment and subscription caches disabled", "error", err)
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

	ragHandler := handler.NewRagHandler(pipeline)
	eventHandler := handler.NewEventHandler(eventRepo)
	collabHandler := handler.NewCollabHandler(commentRepo, inquiryRepo, subscriptionRepo)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/rag/query", ragHandler.PostQuery)
	r.GET("/events", eventHandler.GetEvents)
	r.GET("/events/:id", eventHandler.GetEvent)
	r.PUT("/events/:id/status", eventHandler.PutEventStatus)
	r.POST("/events/:id/comments", collabHandler.PostComment)
	r.GET("/events/:id/comments", collabHandler.GetComments)
	r.POST("/comments/:id/resolve", collabHandler.PostResolveComment)
	r.POST("/inquiries", collabHandler.PostInquiry)
	r.GET("/inquiries", collabHandler.GetInquiries)
	r.PUT("/inquiries/:id/status", collabHandler.PutInquiryStatus)
	r.PUT("/subscriptions/:user_id", collabHandler.PutSubscription)
	r.GET("/subscriptions/:user_id", collabHandler.GetSubscription)
	r.DELETE("/subscriptions/:user_id", collabHandler.DeleteSubscription)
	r.GET("/health", eventHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// buildProviders prefers Azure OpenAI (chat + embeddings); Anthropic is
// the chat-only fallback. Missing credentials degrade, never fail.
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
