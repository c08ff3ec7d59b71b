package repositories

import (
	"image"

	"pdfpress/internal/domain/entities"
)

// PageRasterizer интерфейс для растеризации страниц документа.
// Возвращает по одному изображению на страницу в исходном порядке;
// при любой ошибке отрисовки частичный результат не возвращается.
type PageRasterizer interface {
	Rasterize(path string, dpi int) ([]image.Image, error)
}

// DocumentComposer интерфейс для компоновки растров в итоговый документ.
// Каждый растр масштабируется и центрируется на странице целевого
// размера, все страницы кодируются в один многостраничный PDF
// с качеством quality.
type DocumentComposer interface {
	Compose(pages []image.Image, config *entities.BudgetConfig, dpi, quality int) ([]byte, error)
}

// BudgetCompressor интерфейс подбора параметров под целевой размер
type BudgetCompressor interface {
	CompressToBudget(path string, config *entities.BudgetConfig) (*entities.BudgetResult, error)
}

// SourceProvider интерфейс получения исходного документа
type SourceProvider interface {
	Supports(url string) bool
	Fetch(url, destPath string) (int64, error)
}

// Publisher интерфейс публикации результата
type Publisher interface {
	Publish(data []byte, name string) (ref string, size int64, err error)
}

// StatusLedger интерфейс реестра статусов обработки
type StatusLedger interface {
	Records() ([]entities.Record, error)
	OutputRef(row int) (string, error)
	SetOutputRef(row int, ref string) error
	SetStatus(row int, status string) error
}

// FileRepository интерфейс для работы с файловой системой
type FileRepository interface {
	GetFileInfo(path string) (*entities.PDFDocument, error)
	FileExists(path string) bool
	CreateDirectory(path string) error
	ListPDFFiles(directory string) ([]string, error)
}

// BudgetConfigRepository интерфейс для получения параметров сжатия
type BudgetConfigRepository interface {
	GetBudgetConfig(app *entities.AppBudgetConfig) (*entities.BudgetConfig, error)
	ValidateConfig(config *entities.BudgetConfig) error
}
