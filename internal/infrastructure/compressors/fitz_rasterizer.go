package compressors

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"pdfpress/internal/domain/entities"
)

// FitzRasterizer растеризатор страниц на основе MuPDF
type FitzRasterizer struct{}

// NewFitzRasterizer создает новый растеризатор
func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

// Rasterize отрисовывает все страницы документа в порядке следования
// при разрешении dpi. Документ открывается на время вызова и
// закрывается на любом пути выхода. Ошибка отрисовки любой страницы
// прерывает вызов целиком, частичный результат не возвращается.
func (r *FitzRasterizer) Rasterize(path string, dpi int) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrRenderFailed, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total == 0 {
		return nil, entities.ErrNoPages
	}

	images := make([]image.Image, 0, total)
	for page := 0; page < total; page++ {
		img, err := doc.ImageDPI(page, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("%w: страница %d: %v", entities.ErrRenderFailed, page+1, err)
		}
		images = append(images, img)
	}

	return images, nil
}
