package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticket-intake/internal/extract"
	"ticket-intake/internal/llm"
	"ticket-intake/internal/llm/gemini"
	"ticket-intake/internal/llm/openai"
	"ticket-intake/internal/shared/config"
	"ticket-intake/internal/shared/metrics"
	"ticket-intake/internal/shared/server/middleware"
	"ticket-intake/internal/shared/server/respond"
	"ticket-intake/internal/tickets"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.APIAuthToken),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    middleware.IntakeRules(),
			GroupFor: middleware.GroupByMethod,
		}),
	)

	// Dependencies
	llmClient := newLLMClient(cfg)
	ticketSvc := &tickets.Service{
		LLM:           llmClient,
		Provider:      cfg.LLMProvider,
		Model:         cfg.LLMModel,
		PromptVersion: cfg.PromptVersion,
	}
	ticketHandler := tickets.NewHandler(ticketSvc)
	extractHandler := extract.NewHandler()

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	ticketHandler.RegisterRoutes(api)
	extractHandler.RegisterRoutes(api)

	return r
}

// NewLLMClient builds the configured provider client. A missing credential
// leaves the placeholder in place so the server still starts; every
// extraction then fails with the generic message while the cause is logged.
func NewLLMClient(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OutputLanguage, cfg.LLMTimeout)
	default:
		return gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel, cfg.OutputLanguage, cfg.LLMTimeout)
	}
}

func newLLMClient(cfg config.Config) llm.Client {
	client, err := NewLLMClient(cfg)
	if err != nil {
		log.Printf("llm client not configured, using placeholder: %v", err)
		return llm.PlaceholderClient{}
	}
	return client
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
