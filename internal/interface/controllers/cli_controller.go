package controllers

import (
	"fmt"

	"pdfpress/internal/domain/entities"
	usecases "pdfpress/internal/usecase"
)

// CLIController контроллер для запуска без TUI.
// Используется, когда приложению переданы пути файлов аргументами
// командной строки.
type CLIController struct {
	compressPDFUseCase *usecases.CompressPDFUseCase
	processAllUseCase  *usecases.ProcessAllUseCase
}

// NewCLIController создает новый CLI контроллер
func NewCLIController(
	compressPDFUseCase *usecases.CompressPDFUseCase,
	processAllUseCase *usecases.ProcessAllUseCase,
) *CLIController {
	return &CLIController{
		compressPDFUseCase: compressPDFUseCase,
		processAllUseCase:  processAllUseCase,
	}
}

// HandleSingleFile обрабатывает сжатие одного файла под бюджет
func (c *CLIController) HandleSingleFile(inputPath, outputPath string, budget *entities.AppBudgetConfig) error {
	fmt.Println("🔥 PDF Press - Сжатие PDF под целевой размер")
	fmt.Println("============================================")

	fmt.Printf("\n🚀 Начинаем сжатие файла: %s\n", inputPath)
	fmt.Printf("🎯 Бюджет: %d КБ\n", budget.TargetBytes/1024)

	result, err := c.compressPDFUseCase.Execute(inputPath, outputPath, budget)
	if err != nil {
		return fmt.Errorf("ошибка сжатия: %w", err)
	}

	c.showCompressionResult(result)

	return nil
}

// HandleBatch запускает все настроенные режимы обработки без TUI
func (c *CLIController) HandleBatch(config *entities.Config) error {
	fmt.Println("🔥 PDF Press - Пакетная обработка")
	fmt.Println("=================================")

	if err := c.processAllUseCase.Execute(config); err != nil {
		return fmt.Errorf("ошибка обработки: %w", err)
	}

	fmt.Println("\n🎉 Обработка завершена, подробности в журнале")
	return nil
}

// showCompressionResult показывает результат сжатия файла
func (c *CLIController) showCompressionResult(result *entities.CompressionResult) {
	fmt.Println("\n📊 Результаты сжатия:")
	fmt.Printf("Исходный размер: %.2f MB\n", float64(result.OriginalSize)/1024/1024)
	fmt.Printf("Итоговый размер: %.2f MB\n", float64(result.CompressedSize)/1024/1024)
	fmt.Printf("Параметры: dpi=%d, качество=%d\n", result.DPI, result.Quality)
	fmt.Printf("Сжатие: %.1f%%\n", result.CompressionRatio)

	if result.WithinBudget {
		fmt.Println("✅ Документ уложился в бюджет!")
	} else {
		fmt.Println("⚠️ Бюджет недостижим, сохранен лучший результат на нижней границе параметров")
	}
}
