package usecases

import (
	"fmt"
	"os"
	"path/filepath"

	"pdfpress/internal/domain/entities"
	"pdfpress/internal/domain/repositories"
)

// CompressPDFUseCase сценарий сжатия одного PDF файла под бюджет
type CompressPDFUseCase struct {
	compressor repositories.BudgetCompressor
	fileRepo   repositories.FileRepository
	configRepo repositories.BudgetConfigRepository
}

// NewCompressPDFUseCase создает новый сценарий сжатия PDF
func NewCompressPDFUseCase(
	compressor repositories.BudgetCompressor,
	fileRepo repositories.FileRepository,
	configRepo repositories.BudgetConfigRepository,
) *CompressPDFUseCase {
	return &CompressPDFUseCase{
		compressor: compressor,
		fileRepo:   fileRepo,
		configRepo: configRepo,
	}
}

// Execute выполняет сжатие PDF файла под целевой размер
func (uc *CompressPDFUseCase) Execute(inputPath string, outputPath string, budget *entities.AppBudgetConfig) (*entities.CompressionResult, error) {
	// Проверяем существование входного файла
	if !uc.fileRepo.FileExists(inputPath) {
		return nil, entities.ErrFileNotFound
	}

	// Получаем информацию о файле
	fileInfo, err := uc.fileRepo.GetFileInfo(inputPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	// Строим и валидируем параметры спуска
	config, err := uc.configRepo.GetBudgetConfig(budget)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания конфигурации: %w", err)
	}

	// Генерируем имя выходного файла, если не указано
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		base := inputPath[:len(inputPath)-len(ext)]
		outputPath = base + "_compressed" + ext
	}

	// Выполняем подбор параметров
	budgetResult, err := uc.compressor.CompressToBudget(inputPath, config)
	if err != nil {
		return nil, fmt.Errorf("ошибка сжатия файла: %w", err)
	}

	if err := os.WriteFile(outputPath, budgetResult.Data, 0644); err != nil {
		return nil, fmt.Errorf("ошибка записи результата: %w", err)
	}

	result := &entities.CompressionResult{
		CurrentFile:    inputPath,
		OriginalSize:   fileInfo.Size,
		CompressedSize: budgetResult.Size,
		DPI:            budgetResult.DPI,
		Quality:        budgetResult.Quality,
		WithinBudget:   budgetResult.WithinBudget,
		Success:        true,
	}
	result.CalculateCompressionRatio()

	return result, nil
}
