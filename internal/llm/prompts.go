package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/ticket_v1.txt
var promptTicketV1 string

// DefaultOutputLanguage is the language directive applied when the
// configuration does not override it.
const DefaultOutputLanguage = "Deutsch"

// PromptTemplate returns the policy template text and whether the version was
// recognized.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "v1":
		return promptTicketV1, true
	default:
		return promptTicketV1, false
	}
}

// ResolvePolicyPrompt renders the policy template for the given version.
// Unknown versions fall back to v1.
func ResolvePolicyPrompt(version, outputLanguage string) (string, string) {
	version = strings.TrimSpace(version)
	template, ok := PromptTemplate(version)
	usedVersion := version
	if !ok {
		usedVersion = "v1"
		template, _ = PromptTemplate(usedVersion)
	}
	if strings.TrimSpace(outputLanguage) == "" {
		outputLanguage = DefaultOutputLanguage
	}
	replacer := strings.NewReplacer(
		"{{PROMPT_VERSION}}", usedVersion,
		"{{OUTPUT_LANGUAGE}}", outputLanguage,
	)
	return usedVersion, replacer.Replace(template)
}

// BuildUserPrompt wraps the operator note verbatim inside the fixed analysis
// instruction.
func BuildUserPrompt(noteText string) string {
	return fmt.Sprintf("Analysiere die folgende Problembeschreibung und erstelle daraus ein Ticket:\n\n%s", noteText)
}
