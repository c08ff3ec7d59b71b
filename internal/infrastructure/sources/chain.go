package sources

import (
	"fmt"

	"pdfpress/internal/domain/entities"
	"pdfpress/internal/domain/repositories"
)

// ChainSource перебирает провайдеров в порядке приоритета.
// Если поддерживающий адрес провайдер завершился ошибкой, цепочка
// деградирует к следующему и логирует предупреждение.
type ChainSource struct {
	providers []repositories.SourceProvider
	logger    repositories.Logger
}

// NewChainSource создает цепочку провайдеров
func NewChainSource(logger repositories.Logger, providers ...repositories.SourceProvider) *ChainSource {
	return &ChainSource{
		providers: providers,
		logger:    logger,
	}
}

// Supports проверяет, поддерживает ли адрес хотя бы один провайдер
func (s *ChainSource) Supports(url string) bool {
	for _, p := range s.providers {
		if p.Supports(url) {
			return true
		}
	}
	return false
}

// Fetch загружает документ первым справившимся провайдером
func (s *ChainSource) Fetch(url, destPath string) (int64, error) {
	var lastErr error

	for _, p := range s.providers {
		if !p.Supports(url) {
			continue
		}

		size, err := p.Fetch(url, destPath)
		if err == nil {
			return size, nil
		}

		lastErr = err
		if s.logger != nil {
			s.logger.Warning("Провайдер не смог загрузить %s: %v, пробуем следующий", url, err)
		}
	}

	if lastErr != nil {
		return 0, lastErr
	}
	return 0, fmt.Errorf("%w: %s", entities.ErrUnsupportedSource, url)
}
