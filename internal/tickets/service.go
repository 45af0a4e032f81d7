package tickets

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ticket-intake/internal/llm"
	"ticket-intake/internal/shared/metrics"
	"ticket-intake/internal/shared/telemetry"
)

// Service runs ticket extractions. It is stateless apart from the in-flight
// gate: the result slot belongs to the interaction layer (Session).
type Service struct {
	LLM           llm.Client
	Provider      string
	Model         string
	PromptVersion string

	inFlight atomic.Bool
}

// Extract turns a free-text note into a ticket via exactly one model call.
// A blank note is a no-op (ErrEmptyInput). A second call while one is
// outstanding returns ErrExtractionInFlight. Every other problem, from
// transport failure to an unparsable payload, becomes a Failure outcome with
// the fixed operator message; no error from the model path escapes.
func (s *Service) Extract(ctx context.Context, noteText string) (Outcome, error) {
	noteText = strings.TrimSpace(noteText)
	if noteText == "" {
		return Outcome{}, ErrEmptyInput
	}
	if s.LLM == nil {
		return Outcome{}, errors.New("missing llm client")
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrExtractionInFlight
	}
	defer s.inFlight.Store(false)

	attemptID := uuid.NewString()
	startedAt := time.Now().UTC()
	metrics.IncExtractionStarted()
	telemetry.Info("extraction.status", map[string]any{
		"attempt_id":        attemptID,
		"provider":          s.Provider,
		"model":             s.Model,
		"status":            "submitting",
		"status_transition": "editing->submitting",
		"note_len":          len(noteText),
	})

	input := llm.ExtractInput{
		NoteText:      noteText,
		PromptVersion: s.PromptVersion,
	}
	raw, err := s.LLM.ExtractTicket(ctx, input)
	if err != nil {
		return s.fail(attemptID, classifyFailure(err), err, startedAt), nil
	}

	ticket, err := interpret(raw)
	if err != nil {
		return s.fail(attemptID, FailureParse, err, startedAt), nil
	}

	completedAt := time.Now().UTC()
	outcome := Outcome{
		AttemptID: attemptID,
		Status:    StatusSuccess,
		Ticket:    ticket,
		CreatedAt: completedAt,
	}
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("extraction.status", map[string]any{
		"attempt_id":        attemptID,
		"provider":          s.Provider,
		"model":             s.Model,
		"status":            StatusSuccess,
		"status_transition": "submitting->success",
		"missing_questions": len(ticket.MissingInfoQuestions),
		"duration_ms":       durationMs(startedAt, completedAt),
	})
	return outcome, nil
}

func (s *Service) fail(attemptID string, kind FailureKind, cause error, startedAt time.Time) Outcome {
	completedAt := time.Now().UTC()
	metrics.IncExtractionFailed()
	metrics.ObserveExtractionDurationMs(durationMs(startedAt, completedAt))
	telemetry.Error("extraction.status", map[string]any{
		"attempt_id":        attemptID,
		"provider":          s.Provider,
		"model":             s.Model,
		"status":            StatusFailure,
		"status_transition": "submitting->failure",
		"failure_kind":      string(kind),
		"cause":             sanitizeError(cause),
		"duration_ms":       durationMs(startedAt, completedAt),
	})
	return Outcome{
		AttemptID: attemptID,
		Status:    StatusFailure,
		Kind:      kind,
		Message:   FailureMessage,
		CreatedAt: completedAt,
	}
}

func classifyFailure(err error) FailureKind {
	if errors.Is(err, llm.ErrInvalidCredential) {
		return FailureInvalidCredential
	}
	return FailureTransport
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}
