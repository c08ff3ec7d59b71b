package usecases

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdfpress/internal/domain/entities"
	"pdfpress/internal/domain/repositories"
)

// ProcessRecordsUseCase сценарий обработки документов по реестру.
// Каждая строка реестра проходит путь: загрузка исходника, сжатие под
// бюджет, публикация результата, запись ссылки и статуса обратно в
// реестр. Ошибка одной строки не прерывает обработку остальных.
type ProcessRecordsUseCase struct {
	ledger           repositories.StatusLedger
	source           repositories.SourceProvider
	compressor       repositories.BudgetCompressor
	publisher        repositories.Publisher
	configRepo       repositories.BudgetConfigRepository
	logger           repositories.Logger
	progressReporter func(entities.ProcessingStatus)
}

// NewProcessRecordsUseCase создает новый сценарий обработки реестра
func NewProcessRecordsUseCase(
	ledger repositories.StatusLedger,
	source repositories.SourceProvider,
	compressor repositories.BudgetCompressor,
	publisher repositories.Publisher,
	configRepo repositories.BudgetConfigRepository,
	logger repositories.Logger,
) *ProcessRecordsUseCase {
	return &ProcessRecordsUseCase{
		ledger:     ledger,
		source:     source,
		compressor: compressor,
		publisher:  publisher,
		configRepo: configRepo,
		logger:     logger,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *ProcessRecordsUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

// reportProgress отправляет обновление прогресса
func (uc *ProcessRecordsUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// Execute обрабатывает все строки реестра и возвращает итог по каждой
func (uc *ProcessRecordsUseCase) Execute(config *entities.Config) ([]entities.RecordOutcome, error) {
	status := entities.NewProcessingStatus(0)
	status.SetPhase(entities.PhaseScanning, "Чтение реестра...")
	uc.reportProgress(status)

	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Начало обработки реестра")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Реестр: %s", config.Ledger.Path)
	uc.logInfo("║ Бюджет: %d байт", config.Budget.TargetBytes)
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	records, err := uc.ledger.Records()
	if err != nil {
		err = fmt.Errorf("ошибка чтения реестра: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}

	budgetConfig, err := uc.configRepo.GetBudgetConfig(&config.Budget)
	if err != nil {
		err = fmt.Errorf("ошибка валидации параметров сжатия: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}

	status.TotalFiles = len(records)
	uc.logInfo("Строк в реестре: %d", len(records))

	// Рабочая директория для загруженных исходников
	workDir, err := os.MkdirTemp("", "pdfpress-")
	if err != nil {
		err = fmt.Errorf("не удалось создать рабочую директорию: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}
	defer os.RemoveAll(workDir)

	outcomes := make([]entities.RecordOutcome, 0, len(records))

	for _, record := range records {
		// Строки без адреса источника пропускаем
		if strings.TrimSpace(record.SourceURL) == "" {
			uc.logWarning("Строка %d: адрес источника не заполнен, пропускаем", record.Row)
			status.AddSkipped()
			uc.reportProgress(status)
			outcomes = append(outcomes, entities.RecordOutcome{Record: record, Skipped: true})
			continue
		}

		// Строки с заполненной ссылкой уже обработаны ранее
		if record.HasOutput() {
			uc.logInfo("Строка %d: результат уже записан, пропускаем", record.Row)
			status.AddSkipped()
			uc.reportProgress(status)
			outcomes = append(outcomes, entities.RecordOutcome{Record: record, Skipped: true})
			continue
		}

		outcome := uc.processRecord(record, budgetConfig, workDir, status)
		outcomes = append(outcomes, outcome)

		if outcome.Error != nil {
			status.AddResult(&entities.CompressionResult{
				CurrentFile: record.SourceURL,
				Success:     false,
				Error:       outcome.Error,
			})
		} else {
			status.AddResult(outcome.Result)
		}
		uc.reportProgress(status)
	}

	status.Complete()
	uc.reportProgress(status)

	uc.logInfo("")
	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Обработка реестра завершена")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Время выполнения: %s", status.FormatElapsedTime())
	uc.logInfo("║ Всего строк: %d", status.TotalFiles)
	uc.logSuccess("║ Успешно: %d", status.SuccessfulFiles)
	if status.SkippedFiles > 0 {
		uc.logInfo("║ Пропущено: %d", status.SkippedFiles)
	}
	if status.OversizedFiles > 0 {
		uc.logWarning("║ Превысили бюджет: %d", status.OversizedFiles)
	}
	if status.FailedFiles > 0 {
		uc.logError("║ Ошибок: %d", status.FailedFiles)
	}
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	return outcomes, nil
}

// processRecord обрабатывает одну строку реестра.
// Любая ошибка записывается в статус строки и не прерывает обход.
func (uc *ProcessRecordsUseCase) processRecord(
	record entities.Record,
	budgetConfig *entities.BudgetConfig,
	workDir string,
	status *entities.ProcessingStatus,
) entities.RecordOutcome {
	outcome := entities.RecordOutcome{Record: record}

	fail := func(err error) entities.RecordOutcome {
		uc.logError("Строка %d (%s): %v", record.Row, record.Name, err)
		if setErr := uc.ledger.SetStatus(record.Row, entities.FormatErrorStatus(err)); setErr != nil {
			uc.logError("Строка %d: не удалось записать статус: %v", record.Row, setErr)
		}
		outcome.Error = err
		return outcome
	}

	// Загрузка исходника
	status.SetPhase(entities.PhaseDownloading, fmt.Sprintf("Загрузка: %s", record.Name))
	status.SetCurrentFile(record.SourceURL, 0)
	uc.reportProgress(status)

	srcPath := filepath.Join(workDir, fmt.Sprintf("row_%d.pdf", record.Row))
	srcSize, err := uc.source.Fetch(record.SourceURL, srcPath)
	if err != nil {
		return fail(fmt.Errorf("ошибка загрузки документа: %w", err))
	}
	status.SetCurrentFile(record.SourceURL, srcSize)

	// Сжатие под бюджет
	status.SetPhase(entities.PhaseCompressing, fmt.Sprintf("Сжатие: %s", record.Name))
	uc.reportProgress(status)

	budgetResult, err := uc.compressor.CompressToBudget(srcPath, budgetConfig)
	if err != nil {
		return fail(fmt.Errorf("ошибка сжатия документа: %w", err))
	}

	// Публикация результата
	status.SetPhase(entities.PhasePublishing, fmt.Sprintf("Публикация: %s", record.Name))
	uc.reportProgress(status)

	ref, _, err := uc.publisher.Publish(budgetResult.Data, record.Name)
	if err != nil {
		return fail(fmt.Errorf("ошибка публикации результата: %w", err))
	}

	// Фиксируем результат в реестре
	if err := uc.ledger.SetOutputRef(record.Row, ref); err != nil {
		return fail(fmt.Errorf("ошибка записи ссылки в реестр: %w", err))
	}
	resultStatus := entities.FormatResultStatus(budgetResult)
	if err := uc.ledger.SetStatus(record.Row, resultStatus); err != nil {
		return fail(fmt.Errorf("ошибка записи статуса в реестр: %w", err))
	}

	if budgetResult.WithinBudget {
		uc.logSuccess("Строка %d (%s): %s", record.Row, record.Name, resultStatus)
	} else {
		uc.logWarning("Строка %d (%s): %s", record.Row, record.Name, resultStatus)
	}

	result := &entities.CompressionResult{
		CurrentFile:    record.SourceURL,
		OriginalSize:   srcSize,
		CompressedSize: budgetResult.Size,
		DPI:            budgetResult.DPI,
		Quality:        budgetResult.Quality,
		WithinBudget:   budgetResult.WithinBudget,
		Success:        true,
	}
	result.CalculateCompressionRatio()

	outcome.Record.OutputRef = ref
	outcome.Record.Status = resultStatus
	outcome.Result = result
	return outcome
}

// Методы для логирования
func (uc *ProcessRecordsUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ProcessRecordsUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *ProcessRecordsUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *ProcessRecordsUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
