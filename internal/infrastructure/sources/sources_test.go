package sources

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pdfpress/internal/domain/entities"
)

func TestHTTPSource_Fetch(t *testing.T) {
	payload := []byte("%PDF-1.4 test payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doc.pdf":
			w.Write(payload)
		case "/missing.pdf":
			http.NotFound(w, r)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	source := NewHTTPSource(5 * time.Second)

	t.Run("Success", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "doc.pdf")
		size, err := source.Fetch(server.URL+"/doc.pdf", dest)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if size != int64(len(payload)) {
			t.Errorf("Size = %d, want %d", size, len(payload))
		}
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if string(data) != string(payload) {
			t.Error("Downloaded content differs from payload")
		}
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := source.Fetch(server.URL+"/missing.pdf", filepath.Join(t.TempDir(), "x.pdf"))
		if !errors.Is(err, entities.ErrSourceNotFound) {
			t.Errorf("Expected ErrSourceNotFound, got %v", err)
		}
	})

	t.Run("Server error", func(t *testing.T) {
		_, err := source.Fetch(server.URL+"/boom.pdf", filepath.Join(t.TempDir(), "x.pdf"))
		if !errors.Is(err, entities.ErrSourceUnavailable) {
			t.Errorf("Expected ErrSourceUnavailable, got %v", err)
		}
	})
}

func TestHTTPSource_Supports(t *testing.T) {
	source := NewHTTPSource(0)
	if !source.Supports("https://example.com/a.pdf") || !source.Supports("http://example.com/a.pdf") {
		t.Error("Expected http(s) URLs to be supported")
	}
	if source.Supports("/local/path.pdf") || source.Supports("ftp://host/a.pdf") {
		t.Error("Non-http addresses must not be supported")
	}
}

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(src, []byte("content"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	source := NewFileSource()

	dest := filepath.Join(dir, "out.pdf")
	size, err := source.Fetch(src, dest)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if size != 7 {
		t.Errorf("Size = %d, want 7", size)
	}

	_, err = source.Fetch(filepath.Join(dir, "missing.pdf"), dest)
	if !errors.Is(err, entities.ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound, got %v", err)
	}
}

// fallbackSource всегда падает, проверяем деградацию цепочки
type fallbackSource struct {
	called bool
}

func (f *fallbackSource) Supports(url string) bool { return true }

func (f *fallbackSource) Fetch(url, destPath string) (int64, error) {
	f.called = true
	return 0, entities.ErrSourceUnavailable
}

func TestChainSource_FallsBack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(src, []byte("content"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	failing := &fallbackSource{}
	chain := NewChainSource(nil, failing, NewFileSource())

	size, err := chain.Fetch(src, filepath.Join(dir, "out.pdf"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if size != 7 {
		t.Errorf("Size = %d, want 7", size)
	}
	if !failing.called {
		t.Error("Priority provider was not tried first")
	}
}

func TestChainSource_Unsupported(t *testing.T) {
	chain := NewChainSource(nil, NewHTTPSource(0))
	_, err := chain.Fetch("ftp://host/a.pdf", "out.pdf")
	if !errors.Is(err, entities.ErrUnsupportedSource) {
		t.Errorf("Expected ErrUnsupportedSource, got %v", err)
	}
}
