package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesPlainText(t *testing.T) {
	text, err := TextFromBytes(context.Background(), []byte("  Drucker kaputt\n"), "text/plain; charset=utf-8", "note.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Drucker kaputt" {
		t.Fatalf("expected trimmed text, got %q", text)
	}
}

func TestTextFromBytesPlainTextByExtension(t *testing.T) {
	text, err := TextFromBytes(context.Background(), []byte("Notiz"), "application/octet-stream", "mail.md")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Notiz" {
		t.Fatalf("expected text, got %q", text)
	}
}

func TestTextFromBytesDocx(t *testing.T) {
	docXML := `<?xml version="1.0"?><w:document xmlns:w="ns"><w:body>` +
		`<w:p><w:r><w:t>Outlook startet nicht.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Seit Montag.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := buildDocx(t, docXML)

	text, err := TextFromBytes(context.Background(), data, "application/zip", "mail.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Outlook startet nicht.") || !strings.Contains(text, "Seit Montag.") {
		t.Fatalf("unexpected docx text: %q", text)
	}
}

func TestTextFromBytesUnsupportedType(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte{0x89, 0x50}, "image/png", "screenshot.png")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTextFromBytesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := TextFromBytes(ctx, []byte("x"), "text/plain", "note.txt"); err == nil {
		t.Fatalf("expected context error")
	}
}
