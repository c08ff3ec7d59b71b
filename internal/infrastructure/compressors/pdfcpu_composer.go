package compressors

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdfpress/internal/domain/entities"
)

// PDFCPUComposer компоновщик итогового документа на основе PDFCPU.
// Каждый растр кодируется в JPEG с заданным качеством и размещается
// на всю страницу целевого физического размера; JPEG потоки
// встраиваются в PDF без перекодирования.
type PDFCPUComposer struct{}

// NewPDFCPUComposer создает новый PDFCPU компоновщик
func NewPDFCPUComposer() *PDFCPUComposer {
	return &PDFCPUComposer{}
}

// Compose собирает один многостраничный PDF из последовательности растров
func (c *PDFCPUComposer) Compose(pages []image.Image, config *entities.BudgetConfig, dpi, quality int) ([]byte, error) {
	if len(pages) == 0 {
		return nil, entities.ErrNoPages
	}

	targetW, targetH := targetPixels(config, dpi)

	// Кодируем страницы в JPEG в исходном порядке
	readers := make([]io.Reader, 0, len(pages))
	for i, page := range pages {
		canvas := composeCanvas(page, targetW, targetH)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("%w: страница %d: %v", entities.ErrEncodeFailed, i+1, err)
		}
		readers = append(readers, bytes.NewReader(buf.Bytes()))
	}

	// Страница физического размера, изображение на всю страницу
	imp, err := api.Import(fmt.Sprintf("dim:%.2f %.2f, pos:full", config.PageWidthPt, config.PageHeightPt), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrEncodeFailed, err)
	}

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrEncodeFailed, err)
	}

	return out.Bytes(), nil
}
