package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"

	"pdfpress/internal/domain/entities"
)

// Колонки реестра
var header = []string{"url", "name", "output", "status"}

// CSVLedger реестр статусов обработки на основе CSV файла.
// Первая строка файла — заголовок, строки данных нумеруются с 1.
// Запись переписывает файл целиком; доступ защищен мьютексом,
// поэтому реестр можно разделять между воркерами.
type CSVLedger struct {
	path string
	mu   sync.Mutex
}

// NewCSVLedger создает реестр поверх указанного файла
func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{path: path}
}

// Records возвращает все строки реестра
func (l *CSVLedger) Records() ([]entities.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// OutputRef возвращает ссылку на результат для строки, если она есть
func (l *CSVLedger) OutputRef(row int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return "", err
	}
	for _, r := range records {
		if r.Row == row {
			return r.OutputRef, nil
		}
	}
	return "", fmt.Errorf("%w: строка %d", entities.ErrLedgerRowNotFound, row)
}

// SetOutputRef записывает ссылку на результат в строку реестра
func (l *CSVLedger) SetOutputRef(row int, ref string) error {
	return l.update(row, func(r *entities.Record) {
		r.OutputRef = ref
	})
}

// SetStatus записывает текстовый статус в строку реестра
func (l *CSVLedger) SetStatus(row int, status string) error {
	return l.update(row, func(r *entities.Record) {
		r.Status = status
	})
}

// update применяет изменение к строке и переписывает файл
func (l *CSVLedger) update(row int, apply func(*entities.Record)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].Row == row {
			apply(&records[i])
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: строка %d", entities.ErrLedgerRowNotFound, row)
	}

	return l.save(records)
}

// load читает все строки данных из файла
func (l *CSVLedger) load() ([]entities.Record, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", entities.ErrFileNotFound, l.path)
		}
		return nil, fmt.Errorf("не удалось открыть реестр: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // строки могут быть короче заголовка

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать реестр: %w", err)
	}

	records := make([]entities.Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // заголовок
		}

		field := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		records = append(records, entities.Record{
			Row:       i,
			SourceURL: field(0),
			Name:      field(1),
			OutputRef: field(2),
			Status:    field(3),
		})
	}

	return records, nil
}

// save переписывает файл реестра целиком
func (l *CSVLedger) save(records []entities.Record) error {
	file, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("не удалось записать реестр: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write([]string{r.SourceURL, r.Name, r.OutputRef, r.Status}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
