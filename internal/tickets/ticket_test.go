package tickets

import (
	"strings"
	"testing"
)

func TestValidCategory(t *testing.T) {
	tests := []struct {
		category string
		want     bool
	}{
		{"Hardware > Drucker", true},
		{"Software > E-Mail", true},
		{"Netzwerk > WLAN", true},
		{"Hardware", false},
		{"Hardware > ", false},
		{"Peripherie > Maus", false},
		{"hardware > Drucker", false},
		{"Hardware>Drucker", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidCategory(tt.category); got != tt.want {
			t.Fatalf("ValidCategory(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestCopyBlockExcludesQuestions(t *testing.T) {
	ticket := Ticket{
		Title:                "Drucker druckt nicht",
		Category:             "Hardware > Drucker",
		CIType:               "HP LaserJet 4000",
		Symptoms:             "Keine Ausgabe seit heute Morgen.",
		MissingInfoQuestions: []string{"Seit wann genau?"},
	}

	block := ticket.CopyBlock()
	parts := strings.Split(block, "\t")
	if len(parts) != 4 {
		t.Fatalf("expected 4 tab-joined fields, got %d: %q", len(parts), block)
	}
	if strings.Contains(block, "Seit wann genau?") {
		t.Fatalf("questions must not appear in the copy block: %q", block)
	}
}
