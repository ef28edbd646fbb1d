package ports

import (
	"context"
	"io"
)

// ExportStorage — хранилище файлов выгрузки.
// Имена файлов — только базовые имена, без каталогов.
type ExportStorage interface {
	// Create — создать новый файл; если файл уже существует — domain.ErrAlreadyExists.
	Create(ctx context.Context, name string) (io.WriteCloser, error)

	// Open — открыть файл на чтение; отсутствует — domain.ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)

	// Remove — удалить файл; отсутствие файла ошибкой не считается.
	Remove(ctx context.Context, name string) error

	// Sweep — удалить все файлы выгрузки, вернуть их количество.
	Sweep(ctx context.Context) (int, error)
}
