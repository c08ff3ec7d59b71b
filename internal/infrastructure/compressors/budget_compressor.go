package compressors

import (
	"fmt"

	"pdfpress/internal/domain/entities"
	"pdfpress/internal/domain/repositories"
)

// IterativeCompressor подбирает параметры сжатия спуском по паре
// (разрешение, качество): качество исчерпывается первым при текущем
// разрешении, затем разрешение понижается на шаг, а качество
// возвращается к стартовому. Первый результат, уложившийся в бюджет,
// становится итоговым; при исчерпании обоих диапазонов возвращается
// последний результат с признаком превышения бюджета.
type IterativeCompressor struct {
	rasterizer      repositories.PageRasterizer
	composer        repositories.DocumentComposer
	logger          repositories.Logger
	attemptReporter func(dpi, quality int, size int64)
}

// NewIterativeCompressor создает новый компрессор с подбором под бюджет
func NewIterativeCompressor(
	rasterizer repositories.PageRasterizer,
	composer repositories.DocumentComposer,
	logger repositories.Logger,
) *IterativeCompressor {
	return &IterativeCompressor{
		rasterizer: rasterizer,
		composer:   composer,
		logger:     logger,
	}
}

// SetAttemptReporter устанавливает функцию для отчета о каждой попытке
func (c *IterativeCompressor) SetAttemptReporter(reporter func(dpi, quality int, size int64)) {
	c.attemptReporter = reporter
}

// CompressToBudget выполняет спуск по параметрам до попадания в бюджет
func (c *IterativeCompressor) CompressToBudget(path string, config *entities.BudgetConfig) (*entities.BudgetResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("некорректные параметры сжатия: %w", err)
	}

	dpi := config.StartDPI
	quality := config.StartQuality
	attempts := 0

	for {
		// Каждая попытка заново растеризует документ при текущем
		// разрешении: растры предыдущей попытки не переиспользуются
		pages, err := c.rasterizer.Rasterize(path, dpi)
		if err != nil {
			return nil, err
		}

		data, err := c.composer.Compose(pages, config, dpi, quality)
		if err != nil {
			return nil, err
		}

		attempts++
		size := int64(len(data))

		if c.logger != nil {
			c.logger.Debug("Попытка %d: dpi=%d q=%d → %d байт (бюджет %d)",
				attempts, dpi, quality, size, config.TargetBytes)
		}
		if c.attemptReporter != nil {
			c.attemptReporter(dpi, quality, size)
		}

		if size <= config.TargetBytes {
			return &entities.BudgetResult{
				Data:         data,
				Size:         size,
				DPI:          dpi,
				Quality:      quality,
				Attempts:     attempts,
				WithinBudget: true,
			}, nil
		}

		if quality-config.QualityStep >= config.MinQuality {
			quality -= config.QualityStep
			continue
		}

		if dpi-config.DPIStep >= config.MinDPI {
			dpi -= config.DPIStep
			quality = config.StartQuality
			continue
		}

		// Оба диапазона исчерпаны: отдаем последний результат как есть
		if c.logger != nil {
			c.logger.Warning("Бюджет %d байт недостижим, лучший результат %d байт (dpi=%d q=%d)",
				config.TargetBytes, size, dpi, quality)
		}

		return &entities.BudgetResult{
			Data:         data,
			Size:         size,
			DPI:          dpi,
			Quality:      quality,
			Attempts:     attempts,
			WithinBudget: false,
		}, nil
	}
}
