package compressors

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/creator"

	"pdfpress/internal/domain/entities"
)

// UniPDFComposer компоновщик итогового документа на основе UniPDF.
// Использует DCT кодировщик с явным качеством; требует лицензионный
// ключ из конфигурации или переменной UNIDOC_LICENSE_API_KEY.
type UniPDFComposer struct {
	licenseKey string
}

// NewUniPDFComposer создает новый UniPDF компоновщик
func NewUniPDFComposer(licenseKey string) *UniPDFComposer {
	return &UniPDFComposer{licenseKey: licenseKey}
}

// Compose собирает один многостраничный PDF из последовательности растров
func (c *UniPDFComposer) Compose(pages []image.Image, config *entities.BudgetConfig, dpi, quality int) ([]byte, error) {
	if len(pages) == 0 {
		return nil, entities.ErrNoPages
	}

	licenseKey := c.licenseKey
	if licenseKey == "" {
		licenseKey = os.Getenv("UNIDOC_LICENSE_API_KEY")
	}
	if licenseKey == "" {
		return nil, entities.ErrLicenseKeyRequired
	}
	os.Setenv("UNIDOC_LICENSE_API_KEY", licenseKey)

	targetW, targetH := targetPixels(config, dpi)

	cr := creator.New()
	cr.SetPageMargins(0, 0, 0, 0)

	for i, page := range pages {
		canvas := composeCanvas(page, targetW, targetH)

		cr.SetPageSize(creator.PageSize{config.PageWidthPt, config.PageHeightPt})
		cr.NewPage()

		img, err := cr.NewImageFromGoImage(canvas)
		if err != nil {
			return nil, fmt.Errorf("%w: страница %d: %v", entities.ErrEncodeFailed, i+1, err)
		}

		encoder := core.NewDCTEncoder()
		encoder.Quality = quality
		img.SetEncoder(encoder)

		img.SetPos(0, 0)
		img.ScaleToWidth(config.PageWidthPt)

		if err := cr.Draw(img); err != nil {
			return nil, fmt.Errorf("%w: страница %d: %v", entities.ErrEncodeFailed, i+1, err)
		}
	}

	var out bytes.Buffer
	if err := cr.Write(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrEncodeFailed, err)
	}

	return out.Bytes(), nil
}
