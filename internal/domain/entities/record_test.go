package entities_test

import (
	"errors"
	"strings"
	"testing"

	"pdfpress/internal/domain/entities"
)

func TestFormatResultStatus(t *testing.T) {
	tests := []struct {
		name     string
		result   *entities.BudgetResult
		expected string
	}{
		{
			name: "Within budget",
			result: &entities.BudgetResult{
				Size: 900000, DPI: 140, Quality: 60, WithinBudget: true,
			},
			expected: "COMPRESSED dpi=140 q=60 size=900000",
		},
		{
			name: "Best effort over budget",
			result: &entities.BudgetResult{
				Size: 1500000, DPI: 72, Quality: 30, WithinBudget: false,
			},
			expected: "LARGE_FILE dpi=72 q=30 size=1500000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entities.FormatResultStatus(tt.result); got != tt.expected {
				t.Errorf("FormatResultStatus() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatErrorStatus_Truncation(t *testing.T) {
	long := strings.Repeat("д", 400)
	status := entities.FormatErrorStatus(errors.New(long))

	if !strings.HasPrefix(status, "ERROR: ") {
		t.Fatalf("Expected ERROR prefix, got %q", status)
	}

	payload := []rune(strings.TrimPrefix(status, "ERROR: "))
	if len(payload) != entities.MaxStatusErrorLen {
		t.Errorf("Expected %d runes, got %d", entities.MaxStatusErrorLen, len(payload))
	}

	short := entities.FormatErrorStatus(errors.New("файл поврежден"))
	if short != "ERROR: файл поврежден" {
		t.Errorf("Unexpected status %q", short)
	}
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain name", "INV-1024", "INV-1024.pdf"},
		{"Already pdf", "invoice.pdf", "invoice.pdf"},
		{"Uppercase extension", "invoice.PDF", "invoice.PDF"},
		{"Unsafe characters", `a/b\c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j.pdf"},
		{"Surrounding spaces", "  doc 7  ", "doc 7.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entities.SafeFileName(tt.input); got != tt.expected {
				t.Errorf("SafeFileName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSafeFileName_Empty(t *testing.T) {
	got := entities.SafeFileName("   ")
	if !strings.HasPrefix(got, "pdf_") || !strings.HasSuffix(got, ".pdf") {
		t.Errorf("Expected generated pdf_<ts>.pdf name, got %q", got)
	}
}

func TestRecord_HasOutput(t *testing.T) {
	r := entities.Record{OutputRef: "  "}
	if r.HasOutput() {
		t.Error("Blank output ref must not count as output")
	}
	r.OutputRef = "/out/a.pdf"
	if !r.HasOutput() {
		t.Error("Expected HasOutput for non-empty ref")
	}
}
