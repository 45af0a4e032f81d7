package tickets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// requiredMembers lists the five members every accepted payload must carry.
var requiredMembers = []string{"title", "category", "ciType", "symptoms", "missingInfoQuestions"}

// interpret maps a raw model payload to a Ticket. Any violation of the
// five-member contract is a parse failure; an empty payload is rejected
// outright instead of being coerced to an empty object, since it can never
// satisfy the contract anyway.
func interpret(raw json.RawMessage) (Ticket, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Ticket{}, errors.New("empty payload")
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return Ticket{}, fmt.Errorf("unmarshal: %w", err)
	}
	for _, key := range requiredMembers {
		val, ok := members[key]
		if !ok || string(bytes.TrimSpace(val)) == "null" {
			return Ticket{}, fmt.Errorf("missing required member %q", key)
		}
	}

	var ticket Ticket
	if err := json.Unmarshal(trimmed, &ticket); err != nil {
		return Ticket{}, fmt.Errorf("unmarshal: %w", err)
	}
	if strings.TrimSpace(ticket.Title) == "" {
		return Ticket{}, errors.New("title is empty")
	}
	if !ValidCategory(ticket.Category) {
		return Ticket{}, fmt.Errorf("category %q violates the taxonomy", ticket.Category)
	}
	if strings.TrimSpace(ticket.CIType) == "" {
		return Ticket{}, errors.New("ciType is empty")
	}
	if ticket.MissingInfoQuestions == nil {
		ticket.MissingInfoQuestions = []string{}
	}
	return ticket, nil
}
