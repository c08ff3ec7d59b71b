package usecases

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"pdfpress/internal/domain/entities"
)

// memLedger реестр в памяти для тестов сценария
type memLedger struct {
	records []entities.Record
}

func (l *memLedger) Records() ([]entities.Record, error) {
	out := make([]entities.Record, len(l.records))
	copy(out, l.records)
	return out, nil
}

func (l *memLedger) find(row int) *entities.Record {
	for i := range l.records {
		if l.records[i].Row == row {
			return &l.records[i]
		}
	}
	return nil
}

func (l *memLedger) OutputRef(row int) (string, error) {
	if r := l.find(row); r != nil {
		return r.OutputRef, nil
	}
	return "", entities.ErrLedgerRowNotFound
}

func (l *memLedger) SetOutputRef(row int, ref string) error {
	if r := l.find(row); r != nil {
		r.OutputRef = ref
		return nil
	}
	return entities.ErrLedgerRowNotFound
}

func (l *memLedger) SetStatus(row int, status string) error {
	if r := l.find(row); r != nil {
		r.Status = status
		return nil
	}
	return entities.ErrLedgerRowNotFound
}

// fakeSource отдает заранее заданное содержимое по адресу
type fakeSource struct {
	payloads map[string][]byte
	fetched  []string
}

func (s *fakeSource) Supports(url string) bool { return true }

func (s *fakeSource) Fetch(url, destPath string) (int64, error) {
	data, ok := s.payloads[url]
	if !ok {
		return 0, fmt.Errorf("%w: %s", entities.ErrSourceNotFound, url)
	}
	s.fetched = append(s.fetched, url)
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// fakeBudgetCompressor возвращает фиксированный результат по размеру входа
type fakeBudgetCompressor struct {
	oversized bool
	calls     int
}

func (c *fakeBudgetCompressor) CompressToBudget(path string, config *entities.BudgetConfig) (*entities.BudgetResult, error) {
	c.calls++
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &entities.BudgetResult{
		Data:         data[:len(data)/2],
		Size:         int64(len(data) / 2),
		DPI:          config.MinDPI,
		Quality:      config.StartQuality,
		Attempts:     1,
		WithinBudget: !c.oversized,
	}, nil
}

// memPublisher складывает публикации в память
type memPublisher struct {
	published map[string][]byte
}

func (p *memPublisher) Publish(data []byte, name string) (string, int64, error) {
	if p.published == nil {
		p.published = make(map[string][]byte)
	}
	safe := entities.SafeFileName(name)
	p.published[safe] = data
	return "/pub/" + safe, int64(len(data)), nil
}

// fakeConfigRepo строит параметры без инфраструктурного слоя
type fakeConfigRepo struct{}

func (fakeConfigRepo) GetBudgetConfig(app *entities.AppBudgetConfig) (*entities.BudgetConfig, error) {
	cfg := app.ToBudgetConfig()
	return cfg, cfg.Validate()
}

func (fakeConfigRepo) ValidateConfig(config *entities.BudgetConfig) error {
	return config.Validate()
}

func ledgerConfig() *entities.Config {
	return &entities.Config{
		Ledger: entities.LedgerConfig{Path: "registry.csv"},
		Budget: entities.AppBudgetConfig{TargetBytes: 1024},
	}
}

func TestProcessRecords_MixedOutcomes(t *testing.T) {
	ledger := &memLedger{records: []entities.Record{
		{Row: 1, SourceURL: "https://docs/a.pdf", Name: "Doc A"},
		{Row: 2, SourceURL: "https://docs/done.pdf", Name: "Done", OutputRef: "/pub/Done.pdf", Status: "COMPRESSED dpi=150 q=85 size=10"},
		{Row: 3, SourceURL: "https://docs/missing.pdf", Name: "Missing"},
		{Row: 4, SourceURL: "https://docs/b.pdf", Name: "Doc B"},
		{Row: 5, SourceURL: "", Name: "Blank"},
	}}
	source := &fakeSource{payloads: map[string][]byte{
		"https://docs/a.pdf": []byte(strings.Repeat("a", 100)),
		"https://docs/b.pdf": []byte(strings.Repeat("b", 200)),
	}}
	compressor := &fakeBudgetCompressor{}
	publisher := &memPublisher{}

	uc := NewProcessRecordsUseCase(ledger, source, compressor, publisher, fakeConfigRepo{}, nil)

	outcomes, err := uc.Execute(ledgerConfig())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(outcomes) != 5 {
		t.Fatalf("len(outcomes) = %d, want 5", len(outcomes))
	}

	// Строка 1: обработана и опубликована
	if outcomes[0].Error != nil || outcomes[0].Skipped {
		t.Errorf("Row 1: unexpected outcome %+v", outcomes[0])
	}
	if got := ledger.find(1).OutputRef; got != "/pub/Doc A.pdf" {
		t.Errorf("Row 1 OutputRef = %q", got)
	}
	if got := ledger.find(1).Status; !strings.HasPrefix(got, "COMPRESSED dpi=") {
		t.Errorf("Row 1 Status = %q", got)
	}

	// Строка 2: заполненная ссылка не трогается и не перекачивается
	if !outcomes[1].Skipped {
		t.Error("Row 2 must be skipped")
	}
	for _, url := range source.fetched {
		if url == "https://docs/done.pdf" {
			t.Error("Row 2 was fetched despite existing output")
		}
	}

	// Строка 3: ошибка загрузки изолирована, статус записан
	if outcomes[2].Error == nil {
		t.Fatal("Row 3 must fail")
	}
	if !errors.Is(outcomes[2].Error, entities.ErrSourceNotFound) {
		t.Errorf("Row 3 error = %v", outcomes[2].Error)
	}
	if got := ledger.find(3).Status; !strings.HasPrefix(got, "ERROR: ") {
		t.Errorf("Row 3 Status = %q", got)
	}
	if ledger.find(3).OutputRef != "" {
		t.Error("Row 3 must not get an output ref")
	}

	// Строка 4: обрабатывается несмотря на ошибку строки 3
	if outcomes[3].Error != nil {
		t.Errorf("Row 4: %v", outcomes[3].Error)
	}
	if got := ledger.find(4).OutputRef; got != "/pub/Doc B.pdf" {
		t.Errorf("Row 4 OutputRef = %q", got)
	}

	// Строка 5: пустой адрес пропускается без ошибки
	if !outcomes[4].Skipped || outcomes[4].Error != nil {
		t.Errorf("Row 5: expected skip, got %+v", outcomes[4])
	}
	if got := ledger.find(5).Status; got != "" {
		t.Errorf("Row 5 Status = %q, want empty", got)
	}

	if len(publisher.published) != 2 {
		t.Errorf("published = %d, want 2", len(publisher.published))
	}
	if compressor.calls != 2 {
		t.Errorf("compressor calls = %d, want 2", compressor.calls)
	}
}

func TestProcessRecords_OversizedGetsLargeFileStatus(t *testing.T) {
	ledger := &memLedger{records: []entities.Record{
		{Row: 1, SourceURL: "https://docs/big.pdf", Name: "Big"},
	}}
	source := &fakeSource{payloads: map[string][]byte{
		"https://docs/big.pdf": []byte(strings.Repeat("x", 4096)),
	}}

	uc := NewProcessRecordsUseCase(ledger, source, &fakeBudgetCompressor{oversized: true}, &memPublisher{}, fakeConfigRepo{}, nil)

	outcomes, err := uc.Execute(ledgerConfig())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcomes[0].Error != nil {
		t.Fatalf("Outcome error: %v", outcomes[0].Error)
	}

	// Результат публикуется даже при превышении бюджета
	if !ledger.find(1).HasOutput() {
		t.Error("Oversized result must still be published")
	}
	if got := ledger.find(1).Status; !strings.HasPrefix(got, "LARGE_FILE dpi=") {
		t.Errorf("Status = %q, want LARGE_FILE prefix", got)
	}
	if outcomes[0].Result.WithinBudget {
		t.Error("Result must be marked as over budget")
	}
}

func TestProcessRecords_ErrorStatusTruncated(t *testing.T) {
	ledger := &memLedger{records: []entities.Record{
		{Row: 1, SourceURL: "https://docs/a.pdf", Name: "Doc"},
	}}
	// Источник без единого документа даст длинную цепочку ошибок
	longURL := "https://docs/" + strings.Repeat("x", 600) + ".pdf"
	ledger.records[0].SourceURL = longURL

	uc := NewProcessRecordsUseCase(ledger, &fakeSource{}, &fakeBudgetCompressor{}, &memPublisher{}, fakeConfigRepo{}, nil)

	if _, err := uc.Execute(ledgerConfig()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	status := ledger.find(1).Status
	if !strings.HasPrefix(status, "ERROR: ") {
		t.Fatalf("Status = %q", status)
	}
	if got := len([]rune(strings.TrimPrefix(status, "ERROR: "))); got > entities.MaxStatusErrorLen {
		t.Errorf("Error text length = %d, want <= %d", got, entities.MaxStatusErrorLen)
	}
}
