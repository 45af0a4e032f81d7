package tickets

import (
	"strings"
	"time"
)

// Ticket is the structured record produced by one successful extraction.
type Ticket struct {
	Title                string   `json:"title"`
	Category             string   `json:"category"`
	CIType               string   `json:"ciType"`
	Symptoms             string   `json:"symptoms"`
	MissingInfoQuestions []string `json:"missingInfoQuestions"`
}

// topLevelCategories are the only admissible buckets left of the separator.
var topLevelCategories = map[string]struct{}{
	"Hardware": {},
	"Software": {},
	"Netzwerk": {},
}

const categorySeparator = " > "

// ValidCategory reports whether category follows the
// "TopLevel > SubCategory" taxonomy with a known top-level bucket.
func ValidCategory(category string) bool {
	parts := strings.SplitN(category, categorySeparator, 2)
	if len(parts) != 2 {
		return false
	}
	if _, ok := topLevelCategories[parts[0]]; !ok {
		return false
	}
	return strings.TrimSpace(parts[1]) != ""
}

// CopyBlock renders the ticket as a tab-joined line for pasting into the
// ticketing system. The follow-up questions are deliberately excluded.
func (t Ticket) CopyBlock() string {
	return strings.Join([]string{t.Title, t.Category, t.CIType, t.Symptoms}, "\t")
}

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Outcome is the result of one extraction attempt. Exactly one of
// Ticket/Kind carries meaning depending on Status.
type Outcome struct {
	AttemptID string      `json:"attemptId"`
	Status    string      `json:"status"`
	Ticket    Ticket      `json:"ticket,omitempty"`
	Kind      FailureKind `json:"-"`
	Message   string      `json:"message,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Succeeded reports whether the attempt produced a ticket.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}
