package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
)

// BOM — UTF-8 byte order mark в начале файла (нужен Excel).
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV — пишет BOM, заголовок (колонки первой строки) и строки данных.
// Возвращает число записанных строк данных. Пустой набор — domain.ErrEmptyResult.
func WriteCSV(w io.Writer, rows []domain.OrderRow) (int, error) {
	if len(rows) == 0 {
		return 0, domain.ErrEmptyResult
	}

	if _, err := w.Write(BOM); err != nil {
		return 0, fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	header := rows[0].Columns
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	for i := range rows {
		if len(rows[i].Values) != len(header) {
			return i, fmt.Errorf("row %d: %d values for %d columns", i, len(rows[i].Values), len(header))
		}
		if err := cw.Write(rows[i].Strings()); err != nil {
			return i, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(rows), fmt.Errorf("flush csv: %w", err)
	}
	return len(rows), nil
}
