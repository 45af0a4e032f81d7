package tickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"ticket-intake/internal/llm"
)

const validPayload = `{
  "title": "Drucker druckt nicht",
  "category": "Hardware > Drucker",
  "ciType": "HP LaserJet 4000",
  "symptoms": "Der Drucker im 2. OG nimmt keine Auftraege mehr an.",
  "missingInfoQuestions": ["Seit wann tritt das Problem auf?"]
}`

type staticLLMResponse struct {
	resp  string
	err   error
	calls *int
	last  *llm.ExtractInput
}

func (s staticLLMResponse) ExtractTicket(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	_ = ctx
	if s.calls != nil {
		*s.calls++
	}
	if s.last != nil {
		*s.last = input
	}
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.resp), nil
}

func newService(client llm.Client) *Service {
	return &Service{LLM: client, Provider: "gemini", Model: "test-model", PromptVersion: "v1"}
}

func TestExtractPassesNoteVerbatim(t *testing.T) {
	calls := 0
	var got llm.ExtractInput
	note := "Frau Meier aus der Buchhaltung kann nicht drucken."
	svc := newService(staticLLMResponse{resp: validPayload, calls: &calls, last: &got})

	outcome, err := svc.Extract(context.Background(), note)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one model call, got %d", calls)
	}
	if got.NoteText != note {
		t.Fatalf("expected note passed verbatim, got %q", got.NoteText)
	}
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got %+v", outcome)
	}
}

func TestExtractBlankInputIsNoOp(t *testing.T) {
	calls := 0
	svc := newService(staticLLMResponse{resp: validPayload, calls: &calls})

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := svc.Extract(context.Background(), input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("input %q: expected ErrEmptyInput, got %v", input, err)
		}
	}
	if calls != 0 {
		t.Fatalf("expected no model calls for blank input, got %d", calls)
	}
}

func TestExtractRoundTripIdentity(t *testing.T) {
	svc := newService(staticLLMResponse{resp: validPayload})

	outcome, err := svc.Extract(context.Background(), "note")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	ticket := outcome.Ticket
	if ticket.Title != "Drucker druckt nicht" {
		t.Fatalf("title mismatch: %q", ticket.Title)
	}
	if ticket.Category != "Hardware > Drucker" {
		t.Fatalf("category mismatch: %q", ticket.Category)
	}
	if ticket.CIType != "HP LaserJet 4000" {
		t.Fatalf("ciType mismatch: %q", ticket.CIType)
	}
	if !strings.Contains(ticket.Symptoms, "keine Auftraege") {
		t.Fatalf("symptoms mismatch: %q", ticket.Symptoms)
	}
	if len(ticket.MissingInfoQuestions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(ticket.MissingInfoQuestions))
	}
}

func TestExtractMalformedPayloadFailsWithFixedMessage(t *testing.T) {
	svc := newService(staticLLMResponse{resp: "not-json"})

	outcome, err := svc.Extract(context.Background(), "note")
	if err != nil {
		t.Fatalf("extract must not error on bad payloads: %v", err)
	}
	if outcome.Succeeded() {
		t.Fatalf("expected failure outcome")
	}
	if outcome.Kind != FailureParse {
		t.Fatalf("expected parse kind, got %q", outcome.Kind)
	}
	if outcome.Message != FailureMessage {
		t.Fatalf("expected fixed message, got %q", outcome.Message)
	}
	if strings.Contains(outcome.Message, "json") || strings.Contains(outcome.Message, "unmarshal") {
		t.Fatalf("parser detail leaked into operator message: %q", outcome.Message)
	}
}

func TestExtractEmptyPayloadIsFailure(t *testing.T) {
	svc := newService(staticLLMResponse{resp: ""})

	outcome, err := svc.Extract(context.Background(), "note")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if outcome.Succeeded() {
		t.Fatalf("expected failure for empty payload")
	}
	if outcome.Kind != FailureParse {
		t.Fatalf("expected parse kind, got %q", outcome.Kind)
	}
}

func TestExtractTransportErrorSameFailureShape(t *testing.T) {
	svc := newService(staticLLMResponse{err: errors.New("dial tcp: connection refused")})

	outcome, err := svc.Extract(context.Background(), "note")
	if err != nil {
		t.Fatalf("extract must not propagate transport errors: %v", err)
	}
	if outcome.Succeeded() {
		t.Fatalf("expected failure outcome")
	}
	if outcome.Kind != FailureTransport {
		t.Fatalf("expected transport kind, got %q", outcome.Kind)
	}
	if outcome.Message != FailureMessage {
		t.Fatalf("expected the same fixed message as parse failures, got %q", outcome.Message)
	}
}

func TestExtractInvalidCredentialKind(t *testing.T) {
	svc := newService(staticLLMResponse{err: fmt.Errorf("gemini error: UNAUTHENTICATED: %w", llm.ErrInvalidCredential)})

	outcome, err := svc.Extract(context.Background(), "note")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if outcome.Kind != FailureInvalidCredential {
		t.Fatalf("expected invalid_credential kind, got %q", outcome.Kind)
	}
	if outcome.Message != FailureMessage {
		t.Fatalf("credential detail must not reach the operator, got %q", outcome.Message)
	}
}

func TestExtractEmptyQuestionsStaysSequence(t *testing.T) {
	payload := `{"title":"t","category":"Software > E-Mail","ciType":"Microsoft Outlook","symptoms":"s","missingInfoQuestions":[]}`
	svc := newService(staticLLMResponse{resp: payload})

	outcome, err := svc.Extract(context.Background(), "note")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if outcome.Ticket.MissingInfoQuestions == nil {
		t.Fatalf("expected empty sequence, got nil")
	}
	if len(outcome.Ticket.MissingInfoQuestions) != 0 {
		t.Fatalf("expected 0 questions, got %d", len(outcome.Ticket.MissingInfoQuestions))
	}
}

func TestExtractIdempotentAgainstDeterministicClient(t *testing.T) {
	svc := newService(staticLLMResponse{resp: validPayload})

	first, err := svc.Extract(context.Background(), "note")
	if err != nil {
		t.Fatalf("first extract: %v", err)
	}
	second, err := svc.Extract(context.Background(), "note")
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if first.Ticket.Title != second.Ticket.Title ||
		first.Ticket.Category != second.Ticket.Category ||
		first.Ticket.CIType != second.Ticket.CIType ||
		first.Ticket.Symptoms != second.Ticket.Symptoms {
		t.Fatalf("outcomes differ: %+v vs %+v", first.Ticket, second.Ticket)
	}
}

type blockingLLM struct {
	entered chan struct{}
	release chan struct{}
}

func (b blockingLLM) ExtractTicket(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	return json.RawMessage(validPayload), nil
}

func TestExtractRejectsOverlappingCall(t *testing.T) {
	block := blockingLLM{entered: make(chan struct{}, 1), release: make(chan struct{})}
	svc := newService(block)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.Extract(context.Background(), "note"); err != nil {
			t.Errorf("first extract: %v", err)
		}
	}()

	<-block.entered
	_, err := svc.Extract(context.Background(), "another note")
	if !errors.Is(err, ErrExtractionInFlight) {
		t.Fatalf("expected ErrExtractionInFlight, got %v", err)
	}

	close(block.release)
	wg.Wait()

	// The gate is released after completion.
	if _, err := svc.Extract(context.Background(), "note"); err != nil {
		t.Fatalf("extract after completion: %v", err)
	}
}
