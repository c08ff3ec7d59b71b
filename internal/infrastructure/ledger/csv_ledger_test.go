package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pdfpress/internal/domain/entities"
)

func writeLedger(t *testing.T, content string) *CSVLedger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return NewCSVLedger(path)
}

func TestCSVLedger_Records(t *testing.T) {
	l := writeLedger(t, "url,name,output,status\n"+
		"https://example.com/a.pdf,Invoice A,,\n"+
		"https://example.com/b.pdf,Invoice B,/out/b.pdf,COMPRESSED dpi=150 q=85 size=1000\n")

	records, err := l.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	if records[0].Row != 1 || records[1].Row != 2 {
		t.Errorf("Rows = %d, %d, want 1, 2", records[0].Row, records[1].Row)
	}
	if records[0].Name != "Invoice A" {
		t.Errorf("Name = %q, want %q", records[0].Name, "Invoice A")
	}
	if records[0].HasOutput() {
		t.Error("Record 1 must not have output yet")
	}
	if !records[1].HasOutput() {
		t.Error("Record 2 must have output")
	}
}

func TestCSVLedger_ShortRows(t *testing.T) {
	// Строки без колонок output/status встречаются в свежих реестрах
	l := writeLedger(t, "url,name,output,status\nhttps://example.com/a.pdf,Doc\n")

	records, err := l.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].OutputRef != "" || records[0].Status != "" {
		t.Errorf("Expected empty output and status, got %q, %q", records[0].OutputRef, records[0].Status)
	}
}

func TestCSVLedger_UpdateRoundTrip(t *testing.T) {
	l := writeLedger(t, "url,name,output,status\n"+
		"https://example.com/a.pdf,Doc A,,\n"+
		"https://example.com/b.pdf,Doc B,,\n")

	if err := l.SetOutputRef(2, "/out/b.pdf"); err != nil {
		t.Fatalf("SetOutputRef: %v", err)
	}
	if err := l.SetStatus(2, "COMPRESSED dpi=140 q=85 size=900"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	ref, err := l.OutputRef(2)
	if err != nil {
		t.Fatalf("OutputRef: %v", err)
	}
	if ref != "/out/b.pdf" {
		t.Errorf("OutputRef = %q, want %q", ref, "/out/b.pdf")
	}

	// Соседняя строка не должна пострадать
	records, err := l.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if records[0].OutputRef != "" || records[0].Status != "" {
		t.Error("Row 1 was modified unexpectedly")
	}
	if records[1].Status != "COMPRESSED dpi=140 q=85 size=900" {
		t.Errorf("Status = %q", records[1].Status)
	}
}

func TestCSVLedger_RowNotFound(t *testing.T) {
	l := writeLedger(t, "url,name,output,status\nhttps://example.com/a.pdf,Doc,,\n")

	if err := l.SetStatus(5, "ERROR: x"); !errors.Is(err, entities.ErrLedgerRowNotFound) {
		t.Errorf("Expected ErrLedgerRowNotFound, got %v", err)
	}
	if _, err := l.OutputRef(0); !errors.Is(err, entities.ErrLedgerRowNotFound) {
		t.Errorf("Expected ErrLedgerRowNotFound, got %v", err)
	}
}

func TestCSVLedger_MissingFile(t *testing.T) {
	l := NewCSVLedger(filepath.Join(t.TempDir(), "absent.csv"))
	if _, err := l.Records(); !errors.Is(err, entities.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}
