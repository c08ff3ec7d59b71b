package main

import (
	"log"
	"os"
	"time"

	"pdfpress/internal/domain/entities"
	"pdfpress/internal/domain/repositories"
	"pdfpress/internal/infrastructure/compressors"
	"pdfpress/internal/infrastructure/config"
	"pdfpress/internal/infrastructure/ledger"
	"pdfpress/internal/infrastructure/logging"
	"pdfpress/internal/infrastructure/publish"
	infraRepos "pdfpress/internal/infrastructure/repositories"
	"pdfpress/internal/infrastructure/sources"
	"pdfpress/internal/interface/controllers"
	"pdfpress/internal/presentation/tui"
	usecases "pdfpress/internal/usecase"
)

func main() {
	// Загрузка конфигурации
	configRepo := config.NewRepository()
	appConfig, err := configRepo.Load("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация базового логгера (в файл)
	fileLogger, err := logging.NewFileLogger(
		appConfig.Output.LogFileName,
		appConfig.Output.LogLevel,
		appConfig.Output.LogMaxSizeMB,
		appConfig.Output.LogToFile,
	)
	if err != nil {
		log.Printf("Предупреждение: не удалось инициализировать логгер: %v", err)
	}
	if fileLogger != nil {
		defer fileLogger.Close()
	}

	// Режим командной строки: pdfpress <input.pdf> [output.pdf]
	if len(os.Args) > 1 {
		runCLI(appConfig, fileLogger)
		return
	}

	// Инициализация TUI
	tuiManager := tui.NewManager()
	tuiManager.Initialize()

	// Оборачиваем логгер адаптером, чтобы видеть логи в TUI
	var logger repositories.Logger = tui.NewUILogger(fileLogger, tuiManager)

	// Создание процессора для обработки команд
	processor := NewApplicationProcessor(appConfig, tuiManager, logger)
	defer processor.Shutdown()

	// Привязываем запуск обработки к TUI
	tuiManager.SetOnStartProcessing(func() {
		// Получаем актуальную конфигурацию из TUI
		processor.config = tuiManager.GetConfig()
		go processor.StartProcessing()
	})

	// Автозапуск, если включен в конфигурации
	if appConfig.Budget.AutoStart {
		go processor.StartProcessing()
	}

	// Запуск TUI
	if err := tuiManager.Run(); err != nil {
		log.Fatalf("Ошибка запуска TUI: %v", err)
	}

	// Cleanup при выходе
	tuiManager.Cleanup()
}

// runCLI обрабатывает запуск с аргументами командной строки
func runCLI(appConfig *entities.Config, logger repositories.Logger) {
	stack := buildProcessingStack(appConfig, logger)

	singleFileUseCase := usecases.NewCompressPDFUseCase(
		stack.compressor,
		stack.fileRepo,
		stack.configRepo,
	)

	cli := controllers.NewCLIController(singleFileUseCase, stack.processAll)

	var err error
	switch {
	case os.Args[1] == "batch":
		err = cli.HandleBatch(appConfig)
	case isDirectory(os.Args[1]):
		// Директория аргументом: обрабатываем ее в режиме сканирования
		appConfig.Scanner.SourceDirectory = os.Args[1]
		if len(os.Args) > 2 {
			appConfig.Scanner.TargetDirectory = os.Args[2]
		}
		appConfig.Ledger.Path = ""
		err = cli.HandleBatch(appConfig)
	default:
		outputPath := ""
		if len(os.Args) > 2 {
			outputPath = os.Args[2]
		}
		err = cli.HandleSingleFile(os.Args[1], outputPath, &appConfig.Budget)
	}

	if err != nil {
		log.Fatalf("Ошибка: %v", err)
	}
}

// isDirectory проверяет, указывает ли путь на директорию
func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// processingStack собранные зависимости конвейера обработки
type processingStack struct {
	compressor *compressors.IterativeCompressor
	fileRepo   repositories.FileRepository
	configRepo repositories.BudgetConfigRepository
	records    *usecases.ProcessRecordsUseCase
	directory  *usecases.ProcessPDFsUseCase
	processAll *usecases.ProcessAllUseCase
}

// buildProcessingStack связывает инфраструктуру и сценарии по конфигурации
func buildProcessingStack(appConfig *entities.Config, logger repositories.Logger) *processingStack {
	fileRepo := infraRepos.NewFileSystemRepository()
	budgetConfigRepo := infraRepos.NewConfigRepository()

	// Выбираем кодировщик документа на основе конфигурации
	var composer repositories.DocumentComposer
	switch appConfig.Budget.Algorithm {
	case "unipdf":
		composer = compressors.NewUniPDFComposer(appConfig.Budget.UniPDFLicenseKey)
	default:
		composer = compressors.NewPDFCPUComposer()
	}

	rasterizer := compressors.NewFitzRasterizer()
	compressor := compressors.NewIterativeCompressor(rasterizer, composer, logger)

	// Источники документов: локальные файлы и HTTP
	downloadTimeout := time.Duration(appConfig.Ledger.DownloadTimeoutSeconds) * time.Second
	sourceChain := sources.NewChainSource(logger,
		sources.NewHTTPSource(downloadTimeout),
		sources.NewFileSource(),
	)

	publisher := publish.NewDirectoryPublisher(appConfig.Scanner.TargetDirectory, appConfig.Budget.MakePublic)
	statusLedger := ledger.NewCSVLedger(appConfig.Ledger.Path)

	recordsUseCase := usecases.NewProcessRecordsUseCase(
		statusLedger,
		sourceChain,
		compressor,
		publisher,
		budgetConfigRepo,
		logger,
	)

	directoryUseCase := usecases.NewProcessPDFsUseCase(
		compressor,
		fileRepo,
		budgetConfigRepo,
		logger,
	)

	return &processingStack{
		compressor: compressor,
		fileRepo:   fileRepo,
		configRepo: budgetConfigRepo,
		records:    recordsUseCase,
		directory:  directoryUseCase,
		processAll: usecases.NewProcessAllUseCase(recordsUseCase, directoryUseCase, logger),
	}
}
