package main

import (
	"context"
	"sync"

	"pdfpress/internal/domain/entities"
	"pdfpress/internal/domain/repositories"
	"pdfpress/internal/presentation/tui"
)

// ApplicationProcessor обрабатывает команды приложения
type ApplicationProcessor struct {
	config     *entities.Config
	tuiManager *tui.Manager
	logger     repositories.Logger

	// Graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplicationProcessor создает новый процессор приложения
func NewApplicationProcessor(
	config *entities.Config,
	tuiManager *tui.Manager,
	logger repositories.Logger,
) *ApplicationProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	return &ApplicationProcessor{
		config:     config,
		tuiManager: tuiManager,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// StartProcessing запускает обработку всех настроенных источников.
// Конвейер пересобирается на каждый запуск: алгоритм и параметры
// могли измениться в конфигурации через TUI.
func (p *ApplicationProcessor) StartProcessing() {
	p.wg.Add(1)
	defer p.wg.Done()

	stack := buildProcessingStack(p.config, p.logger)

	if p.logger != nil {
		modes := stack.processAll.ConfiguredModes(p.config)
		p.logger.Info("Запуск обработки. Настроенные режимы: %v", modes)
	}

	// Подключаем репортер прогресса к TUI
	var statusMu sync.Mutex
	var lastStatus entities.ProcessingStatus

	reporter := func(s entities.ProcessingStatus) {
		statusMu.Lock()
		lastStatus = s
		statusMu.Unlock()
		p.tuiManager.SendStatusUpdate(s)
	}
	stack.records.SetProgressReporter(reporter)
	stack.directory.SetProgressReporter(reporter)

	// Каждая попытка спуска сразу видна на экране обработки
	stack.compressor.SetAttemptReporter(func(dpi, quality int, size int64) {
		statusMu.Lock()
		lastStatus.SetAttempt(dpi, quality)
		snapshot := lastStatus
		statusMu.Unlock()
		p.tuiManager.SendStatusUpdate(snapshot)
	})

	if err := stack.processAll.Execute(p.config); err != nil {
		if p.logger != nil {
			p.logger.Error("Ошибка обработки: %v", err)
		}
		return
	}

	if p.logger != nil {
		p.logger.Success("Обработка документов завершена успешно")
	}
}

// Shutdown корректно завершает работу процессора
func (p *ApplicationProcessor) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
