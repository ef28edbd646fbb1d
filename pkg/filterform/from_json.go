package filterform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
)

// FromJSON — фильтр из JSON-объекта.
// Невалидный JSON — единственный случай, когда нормализация возвращает ошибку.
func FromJSON(raw []byte) (domain.FilterSpec, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Normalize(fields), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return domain.FilterSpec{}, fmt.Errorf("%w: invalid json: %v", domain.ErrValidation, err)
	}
	// после объекта ничего быть не должно
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return domain.FilterSpec{}, fmt.Errorf("%w: invalid json: trailing data", domain.ErrValidation)
	}
	return Normalize(numbersToStrings(fields)), nil
}

// FromValues — фильтр из form-urlencoded/query параметров.
func FromValues(values url.Values) domain.FilterSpec {
	fields := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 && !isListKey(k) {
			fields[k] = v[0]
			continue
		}
		fields[k] = v
	}
	return Normalize(fields)
}

// FromFile — фильтр из JSON-файла (для CLI).
func FromFile(path string) (domain.FilterSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.FilterSpec{}, fmt.Errorf("read filter file: %w", err)
	}
	return FromJSON(raw)
}

func isListKey(k string) bool {
	for _, alias := range statusAliases {
		if k == alias {
			return true
		}
	}
	return false
}

// numbersToStrings — json.Number → string, чтобы большие ID не теряли точность во float64.
func numbersToStrings(fields map[string]any) map[string]any {
	for k, v := range fields {
		switch x := v.(type) {
		case json.Number:
			fields[k] = x.String()
		case []any:
			for i, e := range x {
				if n, ok := e.(json.Number); ok {
					x[i] = n.String()
				}
			}
		}
	}
	return fields
}
