package export

import "github.com/Gunvolt24/wc_order_export/internal/domain"

// Flatten — разворачивает заказы в плоские строки.
// С позициями заказ даёт max(1, len(Items)) строк, без позиций — ровно одну.
// Порядок строк совпадает с порядком заказов, позиции идут в порядке источника.
func Flatten(layout Layout, records []domain.OrderRecord, withItems bool) []domain.OrderRow {
	if len(records) == 0 {
		return []domain.OrderRow{}
	}

	columns := layout.Names()
	rows := make([]domain.OrderRow, 0, len(records))
	for i := range records {
		rec := &records[i]
		if !withItems || len(rec.Items) == 0 {
			rows = append(rows, buildRow(layout, columns, rec, nil))
			continue
		}
		for j := range rec.Items {
			rows = append(rows, buildRow(layout, columns, rec, &rec.Items[j]))
		}
	}
	return rows
}

// CountRows — число строк, которое даст Flatten, без построения строк.
func CountRows(records []domain.OrderRecord, withItems bool) int {
	if !withItems {
		return len(records)
	}
	n := 0
	for i := range records {
		n += max(1, len(records[i].Items))
	}
	return n
}

func buildRow(layout Layout, columns []string, rec *domain.OrderRecord, it *domain.LineItem) domain.OrderRow {
	values := make([]any, len(layout))
	for i, c := range layout {
		values[i] = c.Value(rec, it)
	}
	// columns общий для всех строк выгрузки, не копируем
	return domain.OrderRow{Columns: columns, Values: values}
}
