package sources

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"pdfpress/internal/domain/entities"
)

// HTTPSource провайдер исходных документов по HTTP(S)
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource создает новый HTTP провайдер с таймаутом загрузки
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPSource{
		client: &http.Client{Timeout: timeout},
	}
}

// Supports проверяет схему адреса
func (s *HTTPSource) Supports(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// Fetch загружает документ в указанный файл и возвращает его размер
func (s *HTTPSource) Fetch(url, destPath string) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible)")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%w: %s", entities.ErrSourceNotFound, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: статус %s", entities.ErrSourceUnavailable, resp.Status)
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать файл %s: %w", destPath, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrSourceUnavailable, err)
	}

	return written, nil
}
