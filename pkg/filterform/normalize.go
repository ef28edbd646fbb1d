// Package filterform — приведение сырых параметров запроса к domain.FilterSpec.
package filterform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/Gunvolt24/wc_order_export/pkg/httpx"
)

// Имена полей формы.
const (
	FieldDateFrom        = "date_from"
	FieldDateTo          = "date_to"
	FieldStatuses        = "statuses"
	FieldCustomerID      = "customer_id"
	FieldProductID       = "product_id"
	FieldFormat          = "format"
	FieldIncludeBilling  = "include_billing"
	FieldIncludeShipping = "include_shipping"
	FieldIncludeItems    = "include_items"
	FieldIncludeNotes    = "include_notes"
	FieldLimit           = "limit"
)

// альтернативные имена поля статусов (форма админки шлёт order_status[]).
var statusAliases = []string{FieldStatuses, "statuses[]", "order_status", "order_status[]"}

var dateLayouts = []string{"2006-01-02", "2006/01/02"}

// Normalize — нормализует поля запроса в FilterSpec.
// Никогда не падает: любое некорректное поле заменяется безопасным значением по умолчанию.
func Normalize(fields map[string]any) domain.FilterSpec {
	spec := domain.FilterSpec{
		Format:          domain.ParseFormat(asString(fields[FieldFormat])),
		IncludeBilling:  asBool(fields, FieldIncludeBilling, true),
		IncludeShipping: asBool(fields, FieldIncludeShipping, true),
		IncludeItems:    asBool(fields, FieldIncludeItems, true),
		IncludeNotes:    asBool(fields, FieldIncludeNotes, false),
		CustomerID:      nonNegative(asInt(fields[FieldCustomerID])),
		ProductID:       nonNegative(asInt(fields[FieldProductID])),
		Limit:           httpx.ClampInt(clampToInt(asInt(fields[FieldLimit])), 0, domain.MaxLimit),
	}

	spec.DateFrom = parseDate(asString(fields[FieldDateFrom]))
	spec.DateTo = parseDate(asString(fields[FieldDateTo]))
	// перевёрнутый диапазон — фильтр по датам не применяем совсем
	if spec.DateFrom != nil && spec.DateTo != nil && spec.DateFrom.After(*spec.DateTo) {
		spec.DateFrom, spec.DateTo = nil, nil
	}

	for _, key := range statusAliases {
		if v, ok := fields[key]; ok {
			spec.Statuses = normalizeStatuses(asStrings(v))
			break
		}
	}
	return spec
}

// normalizeStatuses — trim, без пустых, без дублей, с префиксом wc-.
func normalizeStatuses(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == domain.StatusPrefix {
			continue
		}
		if !strings.HasPrefix(s, domain.StatusPrefix) {
			s = domain.StatusPrefix + s
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		if len(x) > 0 {
			return x[0]
		}
		return ""
	case []any:
		if len(x) > 0 {
			return asString(x[0])
		}
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func asStrings(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		// "completed,processing" из query-строки или CLI
		return strings.Split(x, ",")
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, asString(e))
		}
		return out
	default:
		return []string{asString(x)}
	}
}

func asInt(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		if x > math.MaxInt64/2 {
			return math.MaxInt64 / 2
		}
		return int64(x)
	default:
		s := strings.TrimSpace(asString(v))
		if s == "" {
			return 0
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		// JSON-числа вида 4.2e1 или 12.7 — дробная часть отбрасывается
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return asInt(f)
		}
		// "12abc" и прочий мусор — как absint() в исходной форме: только ведущие цифры
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		n, _ := strconv.ParseInt(s[:end], 10, 64)
		return n
	}
}

// asBool — чекбокс: отсутствие поля → def.
func asBool(fields map[string]any, key string, def bool) bool {
	v, ok := fields[key]
	if !ok || v == nil {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(asString(v))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off", "":
		return false
	default:
		return def
	}
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

func clampToInt(n int64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < 0 {
		return 0
	}
	return int(n)
}
