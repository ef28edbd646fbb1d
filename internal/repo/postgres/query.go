package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/jackc/pgx/v5"
)

// DefaultTablePrefix — префикс таблиц WordPress по умолчанию.
const DefaultTablePrefix = "wp_"

// amountScale — число знаков после запятой у денежных сумм в выгрузке.
const amountScale = 2

var prefixRe = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// ErrBadTablePrefix — префикс таблиц содержит недопустимые символы.
var ErrBadTablePrefix = errors.New("invalid table prefix")

// Tables — имена таблиц WordPress/WooCommerce с учётом префикса (уже экранированные).
type Tables struct {
	prefix string
}

// NewTables — проверяет префикс и возвращает набор имён таблиц.
func NewTables(prefix string) (Tables, error) {
	if !prefixRe.MatchString(prefix) {
		return Tables{}, fmt.Errorf("%w: %q", ErrBadTablePrefix, prefix)
	}
	return Tables{prefix: prefix}, nil
}

// Name — экранированное имя таблицы с префиксом.
func (t Tables) Name(table string) string {
	return pgx.Identifier{t.prefix + table}.Sanitize()
}

// args — накопитель позиционных параметров $1..$n.
type args []any

// add — добавляет параметр и возвращает его плейсхолдер.
func (a *args) add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

// where — AND-набор условий.
type where []string

func (w *where) and(cond string) { *w = append(*w, cond) }

func (w where) String() string {
	if len(w) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w, " AND ")
}

// columnRefs — выражения колонок, по которым фильтруется конкретная схема.
type columnRefs struct {
	created  string // дата создания (GMT)
	status   string
	customer func(a *args, id int64) string // условие по покупателю
	product  func(a *args, id int64) string // условие "в заказе есть товар"
}

// filterConditions — общие правила фильтрации для обеих схем:
// дата с (начало дня), дата по (включительно, < следующего дня), статусы, покупатель, товар.
func filterConditions(spec domain.FilterSpec, refs columnRefs, a *args, w *where) {
	if from, ok := spec.CreatedFrom(); ok {
		w.and(refs.created + " >= " + a.add(from))
	}
	if before, ok := spec.CreatedBefore(); ok {
		w.and(refs.created + " < " + a.add(before))
	}
	if len(spec.Statuses) > 0 {
		w.and(refs.status + " = ANY(" + a.add(spec.Statuses) + "::text[])")
	}
	if spec.CustomerID > 0 {
		w.and(refs.customer(a, spec.CustomerID))
	}
	if spec.ProductFilterActive() {
		w.and(refs.product(a, spec.ProductID))
	}
}

// money — денежное выражение в текстовом виде с фиксированной точностью.
func money(expr string) string {
	return fmt.Sprintf("(%s)::numeric(26,%d)::text", expr, amountScale)
}

// metaNumber — значение meta как число (пустое/NULL → 0).
func metaNumber(expr string) string {
	return "COALESCE(NULLIF(" + expr + ", '')::numeric, 0)"
}

// pivot — MAX(CASE ...) по ключу meta (одна строка на объект).
func pivot(alias, key string) string {
	return fmt.Sprintf("MAX(CASE WHEN %s.meta_key = '%s' THEN %s.meta_value END)", alias, key, alias)
}

// notesArray — заметки к заказу (comments с типом order_note) по порядку добавления.
func notesArray(t Tables, orderID string) string {
	return fmt.Sprintf(
		"ARRAY(SELECT c.comment_content FROM %s c WHERE c.comment_post_id = %s AND c.comment_type = 'order_note' ORDER BY c.comment_id)",
		t.Name("comments"), orderID,
	)
}

// skuLookup — SKU вариации, если она задана, иначе товара.
func skuLookup(t Tables, productID, variationID string) string {
	return fmt.Sprintf(
		"COALESCE((SELECT s.meta_value FROM %s s WHERE s.post_id = CASE WHEN %s > 0 THEN %s ELSE %s END AND s.meta_key = '_sku' LIMIT 1), '')",
		t.Name("postmeta"), variationID, variationID, productID,
	)
}
