package sources

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pdfpress/internal/domain/entities"
)

// FileSource провайдер исходных документов из локальной файловой системы.
// Поддерживает обычные пути и адреса вида file://
type FileSource struct{}

// NewFileSource создает новый файловый провайдер
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Supports проверяет, похож ли адрес на локальный путь
func (s *FileSource) Supports(url string) bool {
	if strings.HasPrefix(url, "file://") {
		return true
	}
	return !strings.Contains(url, "://")
}

// Fetch копирует документ в указанный файл и возвращает его размер
func (s *FileSource) Fetch(url, destPath string) (int64, error) {
	path := strings.TrimPrefix(url, "file://")

	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", entities.ErrSourceNotFound, path)
		}
		return 0, fmt.Errorf("%w: %v", entities.ErrSourceUnavailable, err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать файл %s: %w", destPath, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return 0, fmt.Errorf("не удалось скопировать документ: %w", err)
	}

	return written, nil
}
