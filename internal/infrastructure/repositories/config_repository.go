package repositories

import (
	"pdfpress/internal/domain/entities"
)

// ConfigRepository реализация репозитория параметров сжатия
type ConfigRepository struct{}

// NewConfigRepository создает новый репозиторий параметров сжатия
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// GetBudgetConfig строит параметры спуска из настроек приложения
func (r *ConfigRepository) GetBudgetConfig(app *entities.AppBudgetConfig) (*entities.BudgetConfig, error) {
	config := app.ToBudgetConfig()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateConfig валидирует конфигурацию
func (r *ConfigRepository) ValidateConfig(config *entities.BudgetConfig) error {
	return config.Validate()
}
