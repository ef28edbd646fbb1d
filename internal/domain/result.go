package domain

import "io"

// PreviewResult — ограниченный предпросмотр выгрузки.
type PreviewResult struct {
	Rows       []OrderRow
	TotalCount int      // все подходящие заказы без учёта лимита
	Columns    []string // пусто, если ничего не найдено
	Backend    string
}

// ExportResult — описание сформированного CSV-файла.
type ExportResult struct {
	Filename      string
	DownloadToken string
	RowCount      int
	FileSizeBytes int64
	Backend       string
}

// Download — поток файла для скачивания.
// Close закрывает файл и удаляет его из хранилища.
type Download struct {
	Filename string
	Size     int64
	Body     io.ReadCloser
}
