package export_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/internal/export"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_RoundTrip(t *testing.T) {
	t.Parallel()

	cols := []string{"Order_ID", "Product_Name", "Note"}
	rows := []domain.OrderRow{
		{Columns: cols, Values: []any{int64(1), "Mug, large", `say "hi"`}},
		{Columns: cols, Values: []any{int64(2), "Line\nbreak", ""}},
		{Columns: cols, Values: []any{int64(3), "plain", "Привет"}},
	}

	var buf bytes.Buffer
	n, err := export.WriteCSV(&buf, rows)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, export.BOM), "файл должен начинаться с BOM")

	parsed, err := csv.NewReader(bytes.NewReader(raw[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 4)
	require.Equal(t, cols, parsed[0])
	for i, r := range rows {
		require.Equal(t, r.Strings(), parsed[i+1], "row %d", i)
	}
	require.Equal(t, "Mug, large", parsed[1][1])
	require.Equal(t, `say "hi"`, parsed[1][2])
	require.Equal(t, "Line\nbreak", parsed[2][1])
}

func TestWriteCSV_LFLineEndings(t *testing.T) {
	t.Parallel()

	rows := []domain.OrderRow{{Columns: []string{"A"}, Values: []any{"x"}}}
	var buf bytes.Buffer
	_, err := export.WriteCSV(&buf, rows)
	require.NoError(t, err)
	require.False(t, strings.Contains(buf.String(), "\r\n"))
	require.Equal(t, "\ufeffA\nx\n", buf.String())
}

func TestWriteCSV_EmptyResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := export.WriteCSV(&buf, nil)
	if !errors.Is(err, domain.ErrEmptyResult) {
		t.Fatalf("ожидали ErrEmptyResult, got %v", err)
	}
	if n != 0 || buf.Len() != 0 {
		t.Fatalf("при пустом наборе ничего не пишем: n=%d len=%d", n, buf.Len())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriterError(t *testing.T) {
	t.Parallel()

	rows := []domain.OrderRow{{Columns: []string{"A"}, Values: []any{"x"}}}
	if _, err := export.WriteCSV(failingWriter{}, rows); err == nil {
		t.Fatalf("ожидали ошибку записи")
	}
}
