package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"pdfpress/internal/domain/entities"
)

// DirectoryPublisher публикует результаты в целевую директорию.
// Ссылкой служит абсолютный путь сохраненного файла.
type DirectoryPublisher struct {
	dir        string
	makePublic bool
}

// NewDirectoryPublisher создает нового издателя
func NewDirectoryPublisher(dir string, makePublic bool) *DirectoryPublisher {
	return &DirectoryPublisher{
		dir:        dir,
		makePublic: makePublic,
	}
}

// Publish сохраняет документ под безопасным именем и возвращает
// ссылку и фактический размер
func (p *DirectoryPublisher) Publish(data []byte, name string) (string, int64, error) {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return "", 0, fmt.Errorf("не удалось создать директорию %s: %w", p.dir, err)
	}

	mode := os.FileMode(0600)
	if p.makePublic {
		mode = 0644
	}

	path := filepath.Join(p.dir, entities.SafeFileName(name))
	if err := os.WriteFile(path, data, mode); err != nil {
		return "", 0, fmt.Errorf("не удалось сохранить результат: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("не удалось получить информацию о сохраненном файле: %w", err)
	}

	return abs, info.Size(), nil
}
