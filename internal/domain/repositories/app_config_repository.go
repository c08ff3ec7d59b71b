package repositories

import "pdfpress/internal/domain/entities"

// AppConfigRepository интерфейс для работы с конфигурацией приложения
type AppConfigRepository interface {
	Load(configPath string) (*entities.Config, error)
	Save(configPath string, config *entities.Config) error
}
