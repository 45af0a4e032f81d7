package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"ticket-intake/internal/extract"
	"ticket-intake/internal/shared/config"
	"ticket-intake/internal/shared/server"
	"ticket-intake/internal/tickets"
)

// intakectl runs one extraction from the command line: note text in, ticket
// plus missing-info checklist out.
func main() {
	cfg := config.Load()

	notePath := flag.String("note", "", "Path to the note (txt, pdf or docx); reads stdin when omitted")
	promptVersion := flag.String("prompt-version", cfg.PromptVersion, "Prompt version")
	copyFlag := flag.Bool("copy", false, "Copy the ticket block to the clipboard")
	flag.Parse()

	noteText, err := readNote(*notePath)
	if err != nil {
		exitErr(err.Error())
	}

	client, err := server.NewLLMClient(cfg)
	if err != nil {
		exitErr(err.Error())
	}

	svc := &tickets.Service{
		LLM:           client,
		Provider:      cfg.LLMProvider,
		Model:         cfg.LLMModel,
		PromptVersion: *promptVersion,
	}

	outcome, err := svc.Extract(context.Background(), noteText)
	if err != nil {
		exitErr(fmt.Sprintf("extract: %v", err))
	}
	if !outcome.Succeeded() {
		exitErr(outcome.Message)
	}

	ticket := outcome.Ticket
	fmt.Printf("Titel:     %s\n", ticket.Title)
	fmt.Printf("Kategorie: %s\n", ticket.Category)
	fmt.Printf("CI-Typ:    %s\n", ticket.CIType)
	fmt.Printf("Symptome:  %s\n", ticket.Symptoms)
	if len(ticket.MissingInfoQuestions) == 0 {
		fmt.Println("\nAlle Angaben vollständig.")
	} else {
		fmt.Println("\nFehlende Angaben, Rückfragen an den Melder:")
		for i, q := range ticket.MissingInfoQuestions {
			fmt.Printf("  %d. %s\n", i+1, q)
		}
	}

	if *copyFlag {
		// Best effort: a headless box without a clipboard is not an error
		// worth failing the extraction over.
		if err := clipboard.WriteAll(ticket.CopyBlock()); err != nil {
			fmt.Fprintf(os.Stderr, "clipboard unavailable: %v\n", err)
		}
	}
}

func readNote(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %v", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read note: %v", err)
	}
	return extract.TextFromBytes(context.Background(), data, "", filepath.Base(path))
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
