package usecases

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pdfpress/internal/domain/entities"
	"pdfpress/internal/domain/repositories"
)

// ProcessPDFsUseCase сценарий автоматической обработки директории с PDF
type ProcessPDFsUseCase struct {
	compressor       repositories.BudgetCompressor
	fileRepo         repositories.FileRepository
	configRepo       repositories.BudgetConfigRepository
	logger           repositories.Logger
	progressReporter func(entities.ProcessingStatus)
}

// NewProcessPDFsUseCase создает новый сценарий обработки PDF
func NewProcessPDFsUseCase(
	compressor repositories.BudgetCompressor,
	fileRepo repositories.FileRepository,
	configRepo repositories.BudgetConfigRepository,
	logger repositories.Logger,
) *ProcessPDFsUseCase {
	return &ProcessPDFsUseCase{
		compressor: compressor,
		fileRepo:   fileRepo,
		configRepo: configRepo,
		logger:     logger,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *ProcessPDFsUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

// reportProgress отправляет обновление прогресса
func (uc *ProcessPDFsUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// Execute выполняет обработку всех PDF файлов исходной директории
func (uc *ProcessPDFsUseCase) Execute(config *entities.Config) error {
	// Фаза 1: Инициализация
	status := entities.NewProcessingStatus(0)
	status.SetPhase(entities.PhaseInitializing, "Инициализация обработки...")
	uc.reportProgress(status)

	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Начало обработки PDF файлов")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Исходная директория: %s", config.Scanner.SourceDirectory)
	uc.logInfo("║ Целевая директория: %s", config.Scanner.TargetDirectory)
	uc.logInfo("║ Алгоритм: %s", config.Budget.Algorithm)
	uc.logInfo("║ Бюджет: %d байт", config.Budget.TargetBytes)
	uc.logInfo("║ Диапазон DPI: %d → %d (шаг %d)", config.Budget.StartDPI, config.Budget.MinDPI, config.Budget.DPIStep)
	uc.logInfo("║ Диапазон качества: %d → %d (шаг %d)", config.Budget.StartQuality, config.Budget.MinQuality, config.Budget.QualityStep)
	uc.logInfo("║ Параллельных воркеров: %d", config.Processing.ParallelWorkers)
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	// Проверяем существование исходной директории
	if !uc.fileRepo.FileExists(config.Scanner.SourceDirectory) {
		err := fmt.Errorf("%w: %s", entities.ErrDirectoryNotFound, config.Scanner.SourceDirectory)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	if err := uc.fileRepo.CreateDirectory(config.Scanner.TargetDirectory); err != nil {
		err = fmt.Errorf("ошибка создания целевой директории: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	// Фаза 2: Сканирование файлов
	status.SetPhase(entities.PhaseScanning, "Сканирование PDF файлов...")
	uc.reportProgress(status)
	uc.logInfo("🔍 Сканирование директории...")

	files, err := uc.fileRepo.ListPDFFiles(config.Scanner.SourceDirectory)
	if err != nil {
		err = fmt.Errorf("ошибка получения списка файлов: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	if len(files) == 0 {
		uc.logWarning("⚠️  PDF файлы не найдены в директории: %s", config.Scanner.SourceDirectory)
		status.Complete()
		uc.reportProgress(status)
		return nil
	}

	status.TotalFiles = len(files)
	uc.logSuccess("✓ Найдено файлов для обработки: %d", len(files))

	// Строим параметры спуска
	budgetConfig, err := uc.configRepo.GetBudgetConfig(&config.Budget)
	if err != nil {
		err = fmt.Errorf("ошибка валидации параметров сжатия: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	// Фаза 3: Сжатие файлов
	status.SetPhase(entities.PhaseCompressing, "Сжатие PDF файлов...")
	uc.reportProgress(status)
	uc.logInfo("")
	uc.logInfo("🔄 Начало сжатия файлов...")
	uc.logInfo("─────────────────────────────────────────────────────────────")

	workers := config.Processing.ParallelWorkers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan string, len(files))
	results := make(chan *entities.CompressionResult, len(files))

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go uc.worker(jobs, results, &wg, config, budgetConfig)
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	fileCounter := 0
	for result := range results {
		fileCounter++
		status.AddResult(result)
		status.SetCurrentFile(result.CurrentFile, result.OriginalSize)
		uc.reportProgress(status)

		fileName := filepath.Base(result.CurrentFile)
		if result.Success && result.Error == nil {
			uc.logSuccess("[%d/%d] ✓ %s", fileCounter, status.TotalFiles, fileName)
			uc.logInfo("    └─ Размер: %.2f MB → %.2f MB",
				float64(result.OriginalSize)/1024/1024,
				float64(result.CompressedSize)/1024/1024)
			uc.logInfo("    └─ Параметры: dpi=%d q=%d", result.DPI, result.Quality)
			if !result.WithinBudget {
				uc.logWarning("    └─ Бюджет не достигнут, сохранен лучший результат")
			}
		} else {
			uc.logError("[%d/%d] ✗ %s", fileCounter, status.TotalFiles, fileName)
			uc.logError("    └─ Ошибка: %v", result.Error)
		}
	}

	// Финальная фаза
	status.Complete()
	uc.reportProgress(status)

	uc.logInfo("")
	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Обработка завершена")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Время выполнения: %s", status.FormatElapsedTime())
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Статистика файлов:")
	uc.logInfo("║   • Всего: %d", status.TotalFiles)
	uc.logSuccess("║   • Успешно: %d", status.SuccessfulFiles)

	if status.FailedFiles > 0 {
		uc.logError("║   • Ошибок: %d", status.FailedFiles)
	}

	if status.OversizedFiles > 0 {
		uc.logWarning("║   • Превысили бюджет: %d", status.OversizedFiles)
	}

	if status.TotalOriginalSize > 0 {
		uc.logInfo("╠════════════════════════════════════════════════════════════")
		uc.logInfo("║ Статистика сжатия:")
		uc.logInfo("║   • Исходный размер: %.2f MB", float64(status.TotalOriginalSize)/1024/1024)
		uc.logInfo("║   • Сжатый размер: %.2f MB", float64(status.TotalCompressedSize)/1024/1024)
		uc.logSuccess("║   • Среднее сжатие: %.1f%%", status.AverageCompression)
		uc.logSuccess("║   • Сэкономлено: %.2f MB", float64(status.TotalSavedSpace)/1024/1024)
	}

	uc.logInfo("╚════════════════════════════════════════════════════════════")

	return nil
}

// worker обрабатывает файлы в отдельной горутине
func (uc *ProcessPDFsUseCase) worker(
	jobs <-chan string,
	results chan<- *entities.CompressionResult,
	wg *sync.WaitGroup,
	config *entities.Config,
	budgetConfig *entities.BudgetConfig,
) {
	defer wg.Done()

	for inputFile := range jobs {
		fileName := filepath.Base(inputFile)

		// Сохраняем структуру директорий в целевой папке
		var outputFile string
		relPath, err := filepath.Rel(config.Scanner.SourceDirectory, inputFile)
		if err != nil {
			outputFile = filepath.Join(config.Scanner.TargetDirectory, fileName)
		} else {
			outputFile = filepath.Join(config.Scanner.TargetDirectory, relPath)
			outputDir := filepath.Dir(outputFile)
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				results <- &entities.CompressionResult{
					CurrentFile: inputFile,
					Success:     false,
					Error:       fmt.Errorf("не удалось создать директорию %s: %w", outputDir, err),
				}
				continue
			}
		}

		fileInfo, err := uc.fileRepo.GetFileInfo(inputFile)
		if err != nil {
			results <- &entities.CompressionResult{
				CurrentFile: inputFile,
				Success:     false,
				Error:       fmt.Errorf("ошибка получения информации о файле: %w", err),
			}
			continue
		}

		// Выполняем подбор параметров с повторными попытками
		var budgetResult *entities.BudgetResult
		retries := config.Processing.RetryAttempts
		if retries <= 0 {
			retries = 1
		}
		for attempt := 0; attempt < retries; attempt++ {
			budgetResult, err = uc.compressor.CompressToBudget(inputFile, budgetConfig)
			if err == nil {
				break
			}

			if attempt < retries-1 {
				if uc.logger != nil {
					uc.logger.Warning("Попытка %d/%d для файла %s не удалась: %v",
						attempt+1, retries, fileName, err)
				}
				time.Sleep(time.Second * 2) // Пауза перед повторной попыткой
			}
		}

		if err != nil {
			results <- &entities.CompressionResult{
				CurrentFile:  inputFile,
				OriginalSize: fileInfo.Size,
				Success:      false,
				Error:        err,
			}
			continue
		}

		if err := os.WriteFile(outputFile, budgetResult.Data, 0644); err != nil {
			results <- &entities.CompressionResult{
				CurrentFile:  inputFile,
				OriginalSize: fileInfo.Size,
				Success:      false,
				Error:        fmt.Errorf("ошибка записи результата: %w", err),
			}
			continue
		}

		result := &entities.CompressionResult{
			CurrentFile:    inputFile,
			OriginalSize:   fileInfo.Size,
			CompressedSize: budgetResult.Size,
			DPI:            budgetResult.DPI,
			Quality:        budgetResult.Quality,
			WithinBudget:   budgetResult.WithinBudget,
			Success:        true,
		}
		result.CalculateCompressionRatio()

		results <- result
	}
}

// Методы для логирования
func (uc *ProcessPDFsUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
