package domain

import "errors"

// Виды ошибок ядра выгрузки. Нижние слои оборачивают их через %w,
// вызывающая сторона проверяет через errors.Is.
var (
	ErrValidation         = errors.New("invalid filter")
	ErrNoMatch            = errors.New("no orders found matching the criteria")
	ErrStorageUnavailable = errors.New("export storage unavailable")
	ErrWriteFailure       = errors.New("could not write export file")
	ErrQueryFailure       = errors.New("order query failed")
	ErrUnauthorized       = errors.New("security check failed")
	ErrNotFound           = errors.New("file not found")
	ErrEmptyResult        = errors.New("nothing to write: empty result")
	ErrAlreadyExists      = errors.New("export file already exists")
)

// UserMessage — человекочитаемое сообщение для администратора.
// Для известных видов ошибок возвращает фиксированный текст, без путей файловой системы.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoMatch):
		return "No orders found matching the criteria."
	case errors.Is(err, ErrUnauthorized):
		return "Security check failed."
	case errors.Is(err, ErrNotFound):
		return "File not found."
	case errors.Is(err, ErrStorageUnavailable):
		return "Could not create export directory."
	case errors.Is(err, ErrWriteFailure), errors.Is(err, ErrEmptyResult):
		return "Could not create export file."
	case errors.Is(err, ErrValidation):
		return "Invalid export filter: " + err.Error()
	case errors.Is(err, ErrQueryFailure):
		return "Order query failed: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
