package domain

import "time"

// Format — формат выгрузки, влияет на набор колонок.
type Format string

const (
	FormatDetailed  Format = "detailed"   // базовые колонки + блоки по флагам
	FormatSummary   Format = "summary"    // только базовые колонки, строка на заказ
	FormatItemsOnly Format = "items_only" // базовые колонки + позиции заказа
)

const (
	// MaxLimit — жёсткий потолок количества заказов в одной выгрузке.
	MaxLimit = 10000

	// StatusPrefix — префикс, с которым статусы хранятся в WooCommerce.
	StatusPrefix = "wc-"
)

// FilterSpec — нормализованный фильтр выгрузки заказов.
// Создаётся на каждый запрос и нигде не хранится.
type FilterSpec struct {
	DateFrom *time.Time // начало периода (дата, UTC), включительно
	DateTo   *time.Time // конец периода (дата, UTC), включительно

	Statuses   []string // статусы вида wc-completed; пусто — все статусы
	CustomerID int64    // 0 — без фильтра
	ProductID  int64    // 0 — без фильтра

	Format          Format
	IncludeBilling  bool
	IncludeShipping bool
	IncludeItems    bool
	IncludeNotes    bool

	Limit int // 0 — без ограничения (но не больше MaxLimit)
}

// BillingIncluded — нужен ли блок billing с учётом формата.
func (f FilterSpec) BillingIncluded() bool {
	return f.Format.orDefault() == FormatDetailed && f.IncludeBilling
}

// ShippingIncluded — нужен ли блок shipping с учётом формата.
func (f FilterSpec) ShippingIncluded() bool {
	return f.Format.orDefault() == FormatDetailed && f.IncludeShipping
}

// ItemsIncluded — разворачивать ли заказы по позициям.
func (f FilterSpec) ItemsIncluded() bool {
	switch f.Format.orDefault() {
	case FormatItemsOnly:
		return true
	case FormatSummary:
		return false
	default:
		return f.IncludeItems
	}
}

// NotesIncluded — нужна ли колонка с заметками к заказу.
func (f FilterSpec) NotesIncluded() bool {
	return f.Format.orDefault() == FormatDetailed && f.IncludeNotes
}

// ProductFilterActive — фильтр по товару применяется только вместе с позициями.
func (f FilterSpec) ProductFilterActive() bool {
	return f.ProductID > 0 && f.ItemsIncluded()
}

// EffectiveLimit — фактический лимит заказов: 0 трактуется как MaxLimit.
func (f FilterSpec) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > MaxLimit {
		return MaxLimit
	}
	return f.Limit
}

// CreatedFrom — нижняя граница даты создания (начало дня).
func (f FilterSpec) CreatedFrom() (time.Time, bool) {
	if f.DateFrom == nil {
		return time.Time{}, false
	}
	return startOfDay(*f.DateFrom), true
}

// CreatedBefore — верхняя граница (строго меньше): начало дня, следующего за DateTo.
func (f FilterSpec) CreatedBefore() (time.Time, bool) {
	if f.DateTo == nil {
		return time.Time{}, false
	}
	return startOfDay(*f.DateTo).AddDate(0, 0, 1), true
}

func (f Format) orDefault() Format {
	switch f {
	case FormatSummary, FormatItemsOnly:
		return f
	default:
		return FormatDetailed
	}
}

// ParseFormat — разбор формата; неизвестное значение → detailed.
func ParseFormat(s string) Format {
	return Format(s).orDefault()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
