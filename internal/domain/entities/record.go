package entities

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Теги статуса в реестре
const (
	StatusCompressed = "COMPRESSED"
	StatusLargeFile  = "LARGE_FILE"
	StatusError      = "ERROR"
)

// MaxStatusErrorLen ограничивает длину текста ошибки в статусе
const MaxStatusErrorLen = 250

// Record представляет строку реестра обрабатываемых документов
type Record struct {
	Row       int    // Номер строки реестра (нумерация с 1)
	SourceURL string // Адрес исходного документа
	Name      string // Желаемое имя результата
	OutputRef string // Ссылка на опубликованный результат
	Status    string // Текстовый статус обработки
}

// HasOutput сообщает, записан ли уже результат для строки
func (r *Record) HasOutput() bool {
	return strings.TrimSpace(r.OutputRef) != ""
}

// RecordOutcome представляет итог обработки одной строки реестра
type RecordOutcome struct {
	Record  Record
	Result  *CompressionResult
	Skipped bool
	Error   error
}

// FormatResultStatus формирует статус успешной обработки:
// тег COMPRESSED или LARGE_FILE плюс параметры, давшие результат
func FormatResultStatus(res *BudgetResult) string {
	tag := StatusCompressed
	if !res.WithinBudget {
		tag = StatusLargeFile
	}
	return fmt.Sprintf("%s dpi=%d q=%d size=%d", tag, res.DPI, res.Quality, res.Size)
}

// FormatErrorStatus формирует статус ошибки с усечением текста
func FormatErrorStatus(err error) string {
	msg := err.Error()
	runes := []rune(msg)
	if len(runes) > MaxStatusErrorLen {
		msg = string(runes[:MaxStatusErrorLen])
	}
	return StatusError + ": " + msg
}

var unsafeNameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SafeFileName приводит имя результата к безопасному имени файла .pdf
func SafeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("pdf_%d", time.Now().Unix())
	}
	name = unsafeNameChars.ReplaceAllString(name, "_")
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
