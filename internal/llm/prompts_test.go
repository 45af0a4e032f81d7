package llm

import (
	"strings"
	"testing"
)

func TestResolvePolicyPromptContainsRubric(t *testing.T) {
	usedVersion, policy := ResolvePolicyPrompt("v1", "")
	if usedVersion != "v1" {
		t.Fatalf("expected v1, got %q", usedVersion)
	}

	for _, fragment := range []string{
		"WER ist betroffen",
		"WO tritt das Problem auf",
		"WAS genau ist das Problem",
		"WIE VIELE sind betroffen",
		"WANN trat das Problem",
		"missingInfoQuestions",
		"Hardware, Software und Netzwerk",
		"Configuration Item",
	} {
		if !strings.Contains(policy, fragment) {
			t.Fatalf("policy prompt missing %q", fragment)
		}
	}
	if !strings.Contains(policy, DefaultOutputLanguage) {
		t.Fatalf("expected default output language directive")
	}
}

func TestResolvePolicyPromptUnknownVersionFallsBack(t *testing.T) {
	usedVersion, policy := ResolvePolicyPrompt("v99", "Englisch")
	if usedVersion != "v1" {
		t.Fatalf("expected fallback to v1, got %q", usedVersion)
	}
	if !strings.Contains(policy, "Englisch") {
		t.Fatalf("expected language override in policy")
	}
	if strings.Contains(policy, "{{") {
		t.Fatalf("unresolved placeholder in policy: %s", policy)
	}
}

func TestBuildUserPromptWrapsNoteVerbatim(t *testing.T) {
	note := "Herr Schulz (Vertrieb) meldet:\nOutlook startet nicht.\t Seit Montag."
	prompt := BuildUserPrompt(note)
	if !strings.Contains(prompt, note) {
		t.Fatalf("user prompt must contain the note verbatim, got %q", prompt)
	}
}

func TestTicketSchemaRequiresAllFiveMembers(t *testing.T) {
	schema := TicketSchema()
	if schema.Type != "object" {
		t.Fatalf("expected object schema, got %q", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Fatalf("expected exactly 5 members, got %d", len(schema.Properties))
	}
	if len(schema.Required) != 5 {
		t.Fatalf("expected all 5 members required, got %d", len(schema.Required))
	}
	for _, key := range []string{"title", "category", "ciType", "symptoms", "missingInfoQuestions"} {
		prop, ok := schema.Properties[key]
		if !ok {
			t.Fatalf("schema missing member %q", key)
		}
		if key == "missingInfoQuestions" {
			if prop.Type != "array" || prop.Items == nil || prop.Items.Type != "string" {
				t.Fatalf("missingInfoQuestions must be an array of strings, got %+v", prop)
			}
		} else if prop.Type != "string" {
			t.Fatalf("member %q must be a string, got %q", key, prop.Type)
		}
	}
}
