package entities

import "errors"

// Доменные ошибки
var (
	ErrInvalidBudget      = errors.New("целевой размер должен быть положительным")
	ErrInvalidPageSize    = errors.New("размер страницы должен быть положительным")
	ErrInvalidRange       = errors.New("стартовое значение параметра меньше минимального")
	ErrInvalidStep        = errors.New("шаг понижения параметра должен быть положительным")
	ErrInvalidQuality     = errors.New("качество JPEG должно быть от 1 до 100")
	ErrRenderFailed       = errors.New("не удалось отрисовать страницы документа")
	ErrNoPages            = errors.New("документ не содержит страниц")
	ErrEncodeFailed       = errors.New("не удалось закодировать итоговый документ")
	ErrSourceUnavailable  = errors.New("источник документа недоступен")
	ErrSourceNotFound     = errors.New("документ не найден в источнике")
	ErrFileNotFound       = errors.New("файл не найден")
	ErrDirectoryNotFound  = errors.New("директория не найдена")
	ErrNoFilesFound       = errors.New("PDF файлы не найдены")
	ErrLedgerRowNotFound  = errors.New("строка реестра не найдена")
	ErrUnsupportedSource  = errors.New("ни один провайдер не поддерживает данный адрес")
	ErrLicenseKeyRequired = errors.New("для алгоритма unipdf требуется лицензионный ключ")
	ErrUnknownAlgorithm   = errors.New("неизвестный алгоритм компоновки")
	ErrNothingToProcess   = errors.New("не настроен ни один режим обработки")
)
