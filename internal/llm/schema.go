package llm

import "encoding/json"

// Schema mirrors the OpenAPI subset the Gemini API accepts as a response schema.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// TicketSchema describes the extraction output contract: an object with
// exactly five members, all required. Providers attach it to the request so
// the interpreter can assume a single JSON object on success.
func TicketSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"title": {
				Type:        "string",
				Description: "Kurzer, prägnanter Titel des Tickets",
			},
			"category": {
				Type:        "string",
				Description: "Kategorie im Format 'Oberkategorie > Unterkategorie', Oberkategorie ist Hardware, Software oder Netzwerk",
			},
			"ciType": {
				Type:        "string",
				Description: "Konkretes Configuration Item, z.B. Gerätetyp oder Softwarename",
			},
			"symptoms": {
				Type:        "string",
				Description: "Detaillierte Beschreibung der Symptome",
			},
			"missingInfoQuestions": {
				Type:        "array",
				Description: "Eine Rückfrage je fehlender Angabe der 5-W-Prüfung; leer wenn vollständig",
				Items:       &Schema{Type: "string"},
			},
		},
		Required: []string{"title", "category", "ciType", "symptoms", "missingInfoQuestions"},
	}
}

// TicketSchemaJSON renders the schema as pretty JSON for providers that can
// only state the contract inside the prompt text.
func TicketSchemaJSON() string {
	data, err := json.MarshalIndent(TicketSchema(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
