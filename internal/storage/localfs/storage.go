// Package localfs — хранилище файлов выгрузки в каталоге на локальном диске.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// Проверка, что Storage удовлетворяет интерфейсу ExportStorage.
var _ ports.ExportStorage = (*Storage)(nil)

// Storage — каталог с файлами выгрузки.
// Каталог создаётся лениво при первой записи.
type Storage struct {
	dir string
}

// New — конструктор Storage.
func New(dir string) *Storage {
	return &Storage{dir: filepath.Clean(dir)}
}

// Dir — путь к каталогу выгрузок.
func (s *Storage) Dir() string { return s.dir }

// Create — атомарно создаёт новый файл (O_EXCL); существующий файл не перезаписывается.
func (s *Storage) Create(_ context.Context, name string) (io.WriteCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, describe(err))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrWriteFailure, describe(err))
	}
	return f, nil
}

// Open — открывает файл на чтение и возвращает его размер.
func (s *Storage) Open(_ context.Context, name string) (io.ReadCloser, int64, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %s", name, describe(err))
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat %s: %s", name, describe(err))
	}
	if !st.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return f, st.Size(), nil
}

// Remove — удаляет файл; отсутствие файла не ошибка.
func (s *Storage) Remove(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %s", name, describe(err))
	}
	return nil
}

// Sweep — удаляет все обычные файлы каталога выгрузок (подкаталоги не трогает).
func (s *Storage) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, describe(err))
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %s", e.Name(), describe(err)))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// path — путь внутри каталога; допускаются только базовые имена.
func (s *Storage) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: bad file name %q", domain.ErrNotFound, name)
	}
	return filepath.Join(s.dir, name), nil
}

// describe — текст ошибки файловой системы без абсолютного пути.
func describe(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Op + ": " + pathErr.Err.Error()
	}
	return err.Error()
}
