package entities

import "time"

// Config представляет конфигурацию приложения
type Config struct {
	Scanner    ScannerConfig    `yaml:"scanner"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Budget     AppBudgetConfig  `yaml:"budget"`
	Processing ProcessingConfig `yaml:"processing"`
	Output     OutputConfig     `yaml:"output"`
}

// ScannerConfig настройки сканирования директорий
type ScannerConfig struct {
	SourceDirectory string `yaml:"source_directory"`
	TargetDirectory string `yaml:"target_directory"`
}

// LedgerConfig настройки режима обработки по реестру.
// Пустой путь отключает режим реестра.
type LedgerConfig struct {
	Path                   string `yaml:"path"`
	DownloadTimeoutSeconds int    `yaml:"download_timeout_seconds"`
}

// AppBudgetConfig настройки сжатия под целевой размер
type AppBudgetConfig struct {
	TargetBytes      int64   `yaml:"target_bytes"`
	PageWidthPt      float64 `yaml:"page_width_pt"`
	PageHeightPt     float64 `yaml:"page_height_pt"`
	StartDPI         int     `yaml:"start_dpi"`
	MinDPI           int     `yaml:"min_dpi"`
	DPIStep          int     `yaml:"dpi_step"`
	StartQuality     int     `yaml:"start_quality"`
	MinQuality       int     `yaml:"min_quality"`
	QualityStep      int     `yaml:"quality_step"`
	Algorithm        string  `yaml:"algorithm"` // pdfcpu | unipdf
	AutoStart        bool    `yaml:"auto_start"`
	MakePublic       bool    `yaml:"make_public"`
	UniPDFLicenseKey string  `yaml:"unipdf_license_key"`
}

// ToBudgetConfig переводит настройки приложения в параметры сжатия
func (c *AppBudgetConfig) ToBudgetConfig() *BudgetConfig {
	cfg := NewBudgetConfig(c.TargetBytes)
	if c.PageWidthPt > 0 {
		cfg.PageWidthPt = c.PageWidthPt
	}
	if c.PageHeightPt > 0 {
		cfg.PageHeightPt = c.PageHeightPt
	}
	if c.StartDPI > 0 {
		cfg.StartDPI = c.StartDPI
	}
	if c.MinDPI > 0 {
		cfg.MinDPI = c.MinDPI
	}
	if c.DPIStep > 0 {
		cfg.DPIStep = c.DPIStep
	}
	if c.StartQuality > 0 {
		cfg.StartQuality = c.StartQuality
	}
	if c.MinQuality > 0 {
		cfg.MinQuality = c.MinQuality
	}
	if c.QualityStep > 0 {
		cfg.QualityStep = c.QualityStep
	}
	return cfg
}

// Validate проверяет корректность настроек сжатия
func (c *AppBudgetConfig) Validate() error {
	return c.ToBudgetConfig().Validate()
}

// ProcessingConfig настройки обработки
type ProcessingConfig struct {
	ParallelWorkers int `yaml:"parallel_workers"`
	RetryAttempts   int `yaml:"retry_attempts"`
}

// OutputConfig настройки вывода
type OutputConfig struct {
	LogLevel     string `yaml:"log_level"`
	ProgressBar  bool   `yaml:"progress_bar"`
	LogToFile    bool   `yaml:"log_to_file"`
	LogFileName  string `yaml:"log_file_name"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
}

// ProcessingStatus статус обработки
type ProcessingStatus struct {
	// Текущая фаза обработки
	Phase ProcessingPhase

	// Информация о текущем документе
	CurrentFile     string
	CurrentFileSize int64

	// Параметры последней попытки сжатия
	CurrentDPI     int
	CurrentQuality int

	// Общая статистика
	TotalFiles      int
	ProcessedFiles  int
	SuccessfulFiles int
	FailedFiles     int
	SkippedFiles    int
	OversizedFiles  int

	// Прогресс
	Progress float64

	// Статистика сжатия
	TotalOriginalSize   int64
	TotalCompressedSize int64
	TotalSavedSpace     int64
	AverageCompression  float64

	// Текущий результат
	LastResult *CompressionResult

	// Время выполнения
	StartTime     time.Time
	ElapsedTime   time.Duration
	EstimatedTime time.Duration

	// Состояние
	IsComplete bool
	Error      error

	// Сообщение для UI
	Message string
}

// ProcessingPhase фаза обработки
type ProcessingPhase int

const (
	PhaseInitializing ProcessingPhase = iota
	PhaseScanning
	PhaseDownloading
	PhaseCompressing
	PhasePublishing
	PhaseCompleted
	PhaseFailed
)

// UIScreen типы экранов UI
type UIScreen int

const (
	UIScreenMenu UIScreen = iota
	UIScreenConfig
	UIScreenProcessing
)

// NewProcessingStatus создает новый статус обработки
func NewProcessingStatus(totalFiles int) *ProcessingStatus {
	return &ProcessingStatus{
		Phase:      PhaseInitializing,
		TotalFiles: totalFiles,
		StartTime:  time.Now(),
	}
}

// UpdateProgress обновляет прогресс обработки
func (ps *ProcessingStatus) UpdateProgress() {
	if ps.TotalFiles > 0 {
		ps.Progress = float64(ps.ProcessedFiles) / float64(ps.TotalFiles) * 100
	}

	ps.ElapsedTime = time.Since(ps.StartTime)

	// Оценка оставшегося времени
	if ps.ProcessedFiles > 0 && ps.ProcessedFiles < ps.TotalFiles {
		avgTimePerFile := ps.ElapsedTime / time.Duration(ps.ProcessedFiles)
		remainingFiles := ps.TotalFiles - ps.ProcessedFiles
		ps.EstimatedTime = avgTimePerFile * time.Duration(remainingFiles)
	}
}

// AddResult добавляет результат обработки документа
func (ps *ProcessingStatus) AddResult(result *CompressionResult) {
	ps.ProcessedFiles++
	ps.LastResult = result

	if result.Success && result.Error == nil {
		ps.SuccessfulFiles++
		ps.TotalOriginalSize += result.OriginalSize
		ps.TotalCompressedSize += result.CompressedSize
		ps.TotalSavedSpace += result.SavedSpace
		ps.CurrentDPI = result.DPI
		ps.CurrentQuality = result.Quality

		if !result.WithinBudget {
			ps.OversizedFiles++
		}

		// Пересчитываем среднее сжатие
		if ps.TotalOriginalSize > 0 {
			ps.AverageCompression = ((float64(ps.TotalOriginalSize) - float64(ps.TotalCompressedSize)) / float64(ps.TotalOriginalSize)) * 100
		}
	} else {
		ps.FailedFiles++
	}

	ps.UpdateProgress()
}

// AddSkipped учитывает пропущенную строку реестра
func (ps *ProcessingStatus) AddSkipped() {
	ps.ProcessedFiles++
	ps.SkippedFiles++
	ps.UpdateProgress()
}

// SetPhase устанавливает фазу обработки
func (ps *ProcessingStatus) SetPhase(phase ProcessingPhase, message string) {
	ps.Phase = phase
	ps.Message = message
}

// SetCurrentFile устанавлиет текущий обрабатываемый документ
func (ps *ProcessingStatus) SetCurrentFile(filePath string, size int64) {
	ps.CurrentFile = filePath
	ps.CurrentFileSize = size
}

// SetAttempt фиксирует параметры текущей попытки спуска
func (ps *ProcessingStatus) SetAttempt(dpi, quality int) {
	ps.CurrentDPI = dpi
	ps.CurrentQuality = quality
}

// Complete завершает обработку
func (ps *ProcessingStatus) Complete() {
	ps.IsComplete = true
	ps.Phase = PhaseCompleted
	ps.Progress = 100
	ps.ElapsedTime = time.Since(ps.StartTime)
	ps.EstimatedTime = 0
}

// Fail отмечает обработку как неудачную
func (ps *ProcessingStatus) Fail(err error) {
	ps.IsComplete = true
	ps.Phase = PhaseFailed
	ps.Error = err
	ps.ElapsedTime = time.Since(ps.StartTime)
}

// GetPhaseName возвращает название фазы
func (phase ProcessingPhase) String() string {
	switch phase {
	case PhaseInitializing:
		return "Инициализация"
	case PhaseScanning:
		return "Чтение реестра"
	case PhaseDownloading:
		return "Загрузка документов"
	case PhaseCompressing:
		return "Сжатие документов"
	case PhasePublishing:
		return "Публикация результатов"
	case PhaseCompleted:
		return "Завершено"
	case PhaseFailed:
		return "Ошибка"
	default:
		return "Неизвестно"
	}
}

// FormatElapsedTime форматирует время выполнения
func (ps *ProcessingStatus) FormatElapsedTime() string {
	duration := ps.ElapsedTime
	if duration < time.Second {
		return "< 1 сек"
	}
	return duration.Round(time.Second).String()
}

// FormatEstimatedTime форматирует оставшееся время
func (ps *ProcessingStatus) FormatEstimatedTime() string {
	if ps.EstimatedTime == 0 {
		return "N/A"
	}
	if ps.EstimatedTime < time.Second {
		return "< 1 сек"
	}
	return ps.EstimatedTime.Round(time.Second).String()
}
