package entities

// BudgetConfig представляет параметры сжатия под целевой размер.
// Разрешение задается в точках на 72 pt, качество — в процентах JPEG.
type BudgetConfig struct {
	TargetBytes  int64   // Максимальный размер результата в байтах
	PageWidthPt  float64 // Ширина целевой страницы в pt
	PageHeightPt float64 // Высота целевой страницы в pt
	StartDPI     int     // Стартовое разрешение растеризации
	MinDPI       int     // Минимально допустимое разрешение
	DPIStep      int     // Шаг понижения разрешения
	StartQuality int     // Стартовое качество JPEG
	MinQuality   int     // Минимально допустимое качество JPEG
	QualityStep  int     // Шаг понижения качества
}

// Значения по умолчанию: бюджет 1 MiB, страница A4
const (
	DefaultTargetBytes  = 1 * 1024 * 1024
	DefaultPageWidthPt  = 595
	DefaultPageHeightPt = 842
	DefaultStartDPI     = 150
	DefaultMinDPI       = 72
	DefaultDPIStep      = 10
	DefaultStartQuality = 85
	DefaultMinQuality   = 30
	DefaultQualityStep  = 5
)

// NewBudgetConfig создает конфигурацию сжатия с параметрами по умолчанию
func NewBudgetConfig(targetBytes int64) *BudgetConfig {
	if targetBytes <= 0 {
		targetBytes = DefaultTargetBytes
	}

	return &BudgetConfig{
		TargetBytes:  targetBytes,
		PageWidthPt:  DefaultPageWidthPt,
		PageHeightPt: DefaultPageHeightPt,
		StartDPI:     DefaultStartDPI,
		MinDPI:       DefaultMinDPI,
		DPIStep:      DefaultDPIStep,
		StartQuality: DefaultStartQuality,
		MinQuality:   DefaultMinQuality,
		QualityStep:  DefaultQualityStep,
	}
}

// Validate проверяет корректность конфигурации
func (c *BudgetConfig) Validate() error {
	if c.TargetBytes <= 0 {
		return ErrInvalidBudget
	}
	if c.PageWidthPt <= 0 || c.PageHeightPt <= 0 {
		return ErrInvalidPageSize
	}
	if c.StartDPI < c.MinDPI || c.MinDPI <= 0 {
		return ErrInvalidRange
	}
	if c.StartQuality < c.MinQuality || c.MinQuality <= 0 {
		return ErrInvalidRange
	}
	if c.StartQuality > 100 {
		return ErrInvalidQuality
	}
	if c.DPIStep <= 0 || c.QualityStep <= 0 {
		return ErrInvalidStep
	}
	return nil
}

// MaxAttempts возвращает верхнюю границу числа попыток спуска.
// Спуск строго убывает по паре (разрешение, качество), поэтому
// цикл завершается не позднее чем за это число итераций.
func (c *BudgetConfig) MaxAttempts() int {
	dpiLevels := (c.StartDPI-c.MinDPI)/c.DPIStep + 1
	qualityLevels := (c.StartQuality-c.MinQuality)/c.QualityStep + 1
	return dpiLevels * qualityLevels
}
