package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ticket-intake/internal/shared/telemetry"
)

// Config holds application configuration. API credentials are read once here
// and injected into the provider constructors; nothing reads the environment
// at call time.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	LLMProvider     string
	LLMModel        string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	LLMTimeout      time.Duration
	PromptVersion   string
	OutputLanguage  string
	APIAuthToken    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "gemini"))

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,
		LLMProvider:     provider,
		LLMModel:        getEnv("LLM_MODEL", defaultModel(provider)),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		LLMTimeout:      timeoutSeconds(getEnv("LLM_TIMEOUT_SECONDS", "120")),
		PromptVersion:   getEnv("PROMPT_VERSION", "v1"),
		OutputLanguage:  getEnv("OUTPUT_LANGUAGE", ""),
		APIAuthToken:    os.Getenv("API_AUTH_TOKEN"),
	}

	if env == "production" && cfg.APIAuthToken == "" {
		telemetry.Warn("config.missing_auth_token", map[string]any{
			"env": env,
		})
	}

	return cfg
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	default:
		return "gemini"
	}
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-2.0-flash"
}

func timeoutSeconds(raw string) time.Duration {
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || parsed <= 0 {
		return 120 * time.Second
	}
	return time.Duration(parsed) * time.Second
}
