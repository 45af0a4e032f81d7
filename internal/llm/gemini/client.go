package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"ticket-intake/internal/llm"
)

// apiBaseURL is a var so tests can point the client at a local server.
var apiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client implements llm.Client using the Gemini generateContent API with a
// JSON response schema.
type Client struct {
	apiKey         string
	model          string
	outputLanguage string
	httpClient     *http.Client
}

// NewClient constructs a Gemini client. The API key is injected here and never
// read from the environment at call time.
func NewClient(apiKey, model, outputLanguage string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:         apiKey,
		model:          model,
		outputLanguage: outputLanguage,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      *float32    `json:"temperature,omitempty"`
	ResponseMIMEType string      `json:"responseMimeType,omitempty"`
	ResponseSchema   *llm.Schema `json:"responseSchema,omitempty"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// ExtractTicket sends one generateContent call carrying the policy prompt, the
// verbatim note text and the five-member response schema.
func (c *Client) ExtractTicket(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	usedVersion, policy := llm.ResolvePolicyPrompt(input.PromptVersion, c.outputLanguage)

	temp := float32(0)
	reqBody := generateRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: llm.BuildUserPrompt(input.NoteText)}},
			},
		},
		SystemInstruction: &content{
			Parts: []part{{Text: policy}},
		},
		GenerationConfig: generationConfig{
			Temperature:      &temp,
			ResponseMIMEType: "application/json",
			ResponseSchema:   llm.TicketSchema(),
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", apiBaseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("gemini request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("gemini status %d: %w", resp.StatusCode, llm.ErrInvalidCredential)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("gemini response parse: %w", err)
	}
	if parsed.Error != nil {
		if isCredentialError(parsed.Error.Status, parsed.Error.Message) {
			return nil, fmt.Errorf("gemini error: %s: %w", parsed.Error.Status, llm.ErrInvalidCredential)
		}
		return nil, fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini response missing candidates")
	}

	var out strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return nil, fmt.Errorf("gemini response empty content")
	}
	logUsage(c.model, usedVersion, parsed.UsageMetadata)
	return json.RawMessage(text), nil
}

func isCredentialError(status, message string) bool {
	if status == "UNAUTHENTICATED" || status == "PERMISSION_DENIED" {
		return true
	}
	return strings.Contains(strings.ToLower(message), "api key")
}

func logUsage(model, promptVersion string, usage *usageMetadata) {
	if usage == nil {
		log.Printf("llm response provider=gemini model=%s prompt_version=%s", model, promptVersion)
		return
	}
	log.Printf("llm response provider=gemini model=%s prompt_version=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, promptVersion, usage.PromptTokenCount, usage.CandidatesTokenCount, usage.TotalTokenCount)
}

var _ llm.Client = (*Client)(nil)
