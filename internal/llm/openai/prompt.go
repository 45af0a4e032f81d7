package openai

import (
	"fmt"

	"ticket-intake/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const systemPromptStrict = "Antworte nur mit JSON. Kein Markdown. Lasse keinen Schlüssel aus. Die Ausgabe muss exakt dem Schema entsprechen."

// BuildPrompt creates the chat messages for a ticket extraction request and
// returns the resolved prompt version.
func BuildPrompt(promptVersion, noteText, outputLanguage string) (string, []Message) {
	usedVersion, policy := llm.ResolvePolicyPrompt(promptVersion, outputLanguage)
	developer := fmt.Sprintf("%s\n\nSchema:\n%s", policy, llm.TicketSchemaJSON())

	return usedVersion, []Message{
		{Role: "system", Content: systemPromptStrict},
		{Role: "developer", Content: developer},
		{Role: "user", Content: llm.BuildUserPrompt(noteText)},
	}
}
