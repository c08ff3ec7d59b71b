package compressors

import (
	"errors"
	"image"
	"testing"

	"pdfpress/internal/domain/entities"
)

type attempt struct {
	dpi     int
	quality int
}

// fakeRasterizer отдает одну фиктивную страницу и считает вызовы
type fakeRasterizer struct {
	calls []int
	err   error
}

func (f *fakeRasterizer) Rasterize(path string, dpi int) ([]image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, dpi)
	return []image.Image{image.NewRGBA(image.Rect(0, 0, 10, 10))}, nil
}

// fakeComposer возвращает размер, вычисленный функцией sizeFor
type fakeComposer struct {
	attempts []attempt
	sizeFor  func(dpi, quality int) int
}

func (f *fakeComposer) Compose(pages []image.Image, config *entities.BudgetConfig, dpi, quality int) ([]byte, error) {
	f.attempts = append(f.attempts, attempt{dpi: dpi, quality: quality})
	return make([]byte, f.sizeFor(dpi, quality)), nil
}

func descentConfig() *entities.BudgetConfig {
	return &entities.BudgetConfig{
		TargetBytes:  1000000,
		PageWidthPt:  595,
		PageHeightPt: 842,
		StartDPI:     150,
		MinDPI:       72,
		DPIStep:      10,
		StartQuality: 85,
		MinQuality:   30,
		QualityStep:  5,
	}
}

// Качество исчерпывается полностью до понижения разрешения,
// после понижения качество возвращается к стартовому
func TestCompressToBudget_DescentOrder(t *testing.T) {
	composer := &fakeComposer{
		sizeFor: func(dpi, quality int) int {
			if dpi == 140 && quality == 85 {
				return 900000
			}
			return 2500000
		},
	}
	compressor := NewIterativeCompressor(&fakeRasterizer{}, composer, nil)

	result, err := compressor.CompressToBudget("in.pdf", descentConfig())
	if err != nil {
		t.Fatalf("CompressToBudget: %v", err)
	}

	// 12 попыток качества на 150 dpi, затем успех на (140, 85)
	if len(composer.attempts) != 13 {
		t.Fatalf("Expected 13 attempts, got %d", len(composer.attempts))
	}

	for i, q := 0, 85; q >= 30; i, q = i+1, q-5 {
		want := attempt{dpi: 150, quality: q}
		if composer.attempts[i] != want {
			t.Errorf("Attempt %d = %+v, want %+v", i, composer.attempts[i], want)
		}
	}

	last := composer.attempts[12]
	if last != (attempt{dpi: 140, quality: 85}) {
		t.Errorf("Final attempt = %+v, want dpi=140 q=85", last)
	}

	if !result.WithinBudget || result.DPI != 140 || result.Quality != 85 || result.Size != 900000 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

// Первый успех завершает подбор немедленно
func TestCompressToBudget_FirstFitWins(t *testing.T) {
	composer := &fakeComposer{
		sizeFor: func(dpi, quality int) int { return 100 },
	}
	compressor := NewIterativeCompressor(&fakeRasterizer{}, composer, nil)

	result, err := compressor.CompressToBudget("in.pdf", descentConfig())
	if err != nil {
		t.Fatalf("CompressToBudget: %v", err)
	}

	if len(composer.attempts) != 1 {
		t.Errorf("Expected a single attempt, got %d", len(composer.attempts))
	}
	if result.DPI != 150 || result.Quality != 85 || !result.WithinBudget {
		t.Errorf("Unexpected result: %+v", result)
	}
}

// Вырожденный диапазон: ровно одна попытка, результат возвращается
// независимо от попадания в бюджет
func TestCompressToBudget_SinglePointRange(t *testing.T) {
	config := descentConfig()
	config.StartDPI = 72
	config.MinDPI = 72
	config.StartQuality = 30
	config.MinQuality = 30

	composer := &fakeComposer{
		sizeFor: func(dpi, quality int) int { return 5000000 },
	}
	compressor := NewIterativeCompressor(&fakeRasterizer{}, composer, nil)

	result, err := compressor.CompressToBudget("in.pdf", config)
	if err != nil {
		t.Fatalf("CompressToBudget: %v", err)
	}

	if len(composer.attempts) != 1 {
		t.Errorf("Expected exactly one attempt, got %d", len(composer.attempts))
	}
	if result.WithinBudget {
		t.Error("Oversized result must not be flagged as within budget")
	}
	if result.Size != 5000000 || result.DPI != 72 || result.Quality != 30 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

// Недостижимый бюджет: число попыток совпадает с верхней границей,
// итог вычислен на нижней границе обоих диапазонов
func TestCompressToBudget_ExhaustsWithinBound(t *testing.T) {
	config := descentConfig()
	composer := &fakeComposer{
		sizeFor: func(dpi, quality int) int { return 2000000 },
	}
	rasterizer := &fakeRasterizer{}
	compressor := NewIterativeCompressor(rasterizer, composer, nil)

	result, err := compressor.CompressToBudget("in.pdf", config)
	if err != nil {
		t.Fatalf("CompressToBudget: %v", err)
	}

	if len(composer.attempts) != config.MaxAttempts() {
		t.Errorf("Attempts = %d, want bound %d", len(composer.attempts), config.MaxAttempts())
	}
	if result.WithinBudget {
		t.Error("Expected best-effort result over budget")
	}
	if result.DPI != config.MinDPI || result.Quality != config.MinQuality {
		t.Errorf("Expected floor parameters, got dpi=%d q=%d", result.DPI, result.Quality)
	}
	if result.Attempts != config.MaxAttempts() {
		t.Errorf("Attempts in result = %d, want %d", result.Attempts, config.MaxAttempts())
	}

	// Каждая попытка заново растеризует документ
	if len(rasterizer.calls) != config.MaxAttempts() {
		t.Errorf("Rasterize calls = %d, want %d", len(rasterizer.calls), config.MaxAttempts())
	}

	// Разрешение не растет по ходу спуска
	for i := 1; i < len(rasterizer.calls); i++ {
		if rasterizer.calls[i] > rasterizer.calls[i-1] {
			t.Errorf("DPI rose from %d to %d at attempt %d", rasterizer.calls[i-1], rasterizer.calls[i], i)
		}
	}
}

// Репортер попыток вызывается на каждой итерации спуска с фактическими
// параметрами и размером результата
func TestCompressToBudget_AttemptReporter(t *testing.T) {
	composer := &fakeComposer{
		sizeFor: func(dpi, quality int) int {
			if dpi == 150 && quality == 75 {
				return 800000
			}
			return 3000000
		},
	}
	compressor := NewIterativeCompressor(&fakeRasterizer{}, composer, nil)

	type report struct {
		dpi     int
		quality int
		size    int64
	}
	var reported []report
	compressor.SetAttemptReporter(func(dpi, quality int, size int64) {
		reported = append(reported, report{dpi: dpi, quality: quality, size: size})
	})

	result, err := compressor.CompressToBudget("in.pdf", descentConfig())
	if err != nil {
		t.Fatalf("CompressToBudget: %v", err)
	}

	if len(reported) != len(composer.attempts) {
		t.Fatalf("Reported %d attempts, composer ran %d", len(reported), len(composer.attempts))
	}

	want := []report{
		{dpi: 150, quality: 85, size: 3000000},
		{dpi: 150, quality: 80, size: 3000000},
		{dpi: 150, quality: 75, size: 800000},
	}
	for i, w := range want {
		if reported[i] != w {
			t.Errorf("Report %d = %+v, want %+v", i, reported[i], w)
		}
	}

	last := reported[len(reported)-1]
	if last.dpi != result.DPI || last.quality != result.Quality || last.size != result.Size {
		t.Errorf("Final report %+v does not match result %+v", last, result)
	}
}

func TestCompressToBudget_InvalidConfig(t *testing.T) {
	config := descentConfig()
	config.StartDPI = 60 // меньше минимума

	composer := &fakeComposer{sizeFor: func(dpi, quality int) int { return 1 }}
	compressor := NewIterativeCompressor(&fakeRasterizer{}, composer, nil)

	_, err := compressor.CompressToBudget("in.pdf", config)
	if !errors.Is(err, entities.ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
	if len(composer.attempts) != 0 {
		t.Error("No attempts expected for invalid configuration")
	}
}

func TestCompressToBudget_RenderFailureAborts(t *testing.T) {
	rasterizer := &fakeRasterizer{err: entities.ErrRenderFailed}
	composer := &fakeComposer{sizeFor: func(dpi, quality int) int { return 1 }}
	compressor := NewIterativeCompressor(rasterizer, composer, nil)

	_, err := compressor.CompressToBudget("in.pdf", descentConfig())
	if !errors.Is(err, entities.ErrRenderFailed) {
		t.Errorf("Expected render failure to propagate, got %v", err)
	}
	if len(composer.attempts) != 0 {
		t.Error("Composer must not run after a render failure")
	}
}
