package usecases

import (
	"fmt"
	"strings"

	"pdfpress/internal/domain/entities"
	"pdfpress/internal/domain/repositories"
)

// ProcessAllUseCase сценарий запуска всех настроенных режимов обработки
type ProcessAllUseCase struct {
	recordProcessor    *ProcessRecordsUseCase
	directoryProcessor *ProcessPDFsUseCase
	logger             repositories.Logger
}

// NewProcessAllUseCase создает новый сценарий обработки всех источников
func NewProcessAllUseCase(
	recordProcessor *ProcessRecordsUseCase,
	directoryProcessor *ProcessPDFsUseCase,
	logger repositories.Logger,
) *ProcessAllUseCase {
	return &ProcessAllUseCase{
		recordProcessor:    recordProcessor,
		directoryProcessor: directoryProcessor,
		logger:             logger,
	}
}

// Execute запускает настроенные режимы: сначала реестр, затем директорию
func (uc *ProcessAllUseCase) Execute(config *entities.Config) error {
	uc.logger.Info("Начинаем обработку документов")

	var processedLedger, processedDirectory bool

	if uc.shouldProcessLedger(config) {
		uc.logger.Info("Обработка по реестру: %s", config.Ledger.Path)
		if _, err := uc.recordProcessor.Execute(config); err != nil {
			uc.logger.Error("Ошибка обработки реестра: %v", err)
			return fmt.Errorf("ошибка обработки реестра: %w", err)
		}
		processedLedger = true
		uc.logger.Info("Обработка реестра завершена")
	}

	if uc.shouldProcessDirectory(config) {
		uc.logger.Info("Обработка директории: %s", config.Scanner.SourceDirectory)
		if err := uc.directoryProcessor.Execute(config); err != nil {
			uc.logger.Error("Ошибка обработки директории: %v", err)
			return fmt.Errorf("ошибка обработки директории: %w", err)
		}
		processedDirectory = true
		uc.logger.Info("Обработка директории завершена")
	}

	if !processedLedger && !processedDirectory {
		uc.logger.Warning("Не настроен ни один источник документов")
		return entities.ErrNothingToProcess
	}

	uc.logger.Info("Обработка всех источников завершена успешно")
	return nil
}

// shouldProcessLedger проверяет, настроен ли режим реестра
func (uc *ProcessAllUseCase) shouldProcessLedger(config *entities.Config) bool {
	return strings.TrimSpace(config.Ledger.Path) != ""
}

// shouldProcessDirectory проверяет, настроен ли режим директории
func (uc *ProcessAllUseCase) shouldProcessDirectory(config *entities.Config) bool {
	return strings.TrimSpace(config.Scanner.SourceDirectory) != ""
}

// ConfiguredModes возвращает список настроенных режимов обработки
func (uc *ProcessAllUseCase) ConfiguredModes(config *entities.Config) []string {
	var modes []string

	if uc.shouldProcessLedger(config) {
		modes = append(modes, "Реестр")
	}
	if uc.shouldProcessDirectory(config) {
		modes = append(modes, "Директория")
	}

	return modes
}
