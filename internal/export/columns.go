// Package export — раскладка колонок, разворачивание заказов в строки и запись CSV.
package export

import (
	"strings"
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
)

// DateLayout — формат дат в выгрузке.
const DateLayout = "2006-01-02 15:04:05"

// NotesSeparator — разделитель заметок в колонке Order_Notes.
const NotesSeparator = " | "

// Extractor — получение значения колонки из заказа и (опционально) позиции.
// item == nil для заказа без позиций или когда позиции не выгружаются.
type Extractor func(o *domain.OrderRecord, item *domain.LineItem) any

// Column — пара имя колонки + извлекатель.
type Column struct {
	Name  string
	Value Extractor
}

// Layout — упорядоченный набор колонок одной выгрузки.
type Layout []Column

// Names — имена колонок по порядку.
func (l Layout) Names() []string {
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = c.Name
	}
	return out
}

// LayoutFor — набор колонок под фильтр: base + billing + shipping + items + notes.
func LayoutFor(spec domain.FilterSpec) Layout {
	layout := make(Layout, 0, len(baseColumns)+len(billingColumns)+len(shippingColumns)+len(itemColumns)+1)
	layout = append(layout, baseColumns...)
	if spec.BillingIncluded() {
		layout = append(layout, billingColumns...)
	}
	if spec.ShippingIncluded() {
		layout = append(layout, shippingColumns...)
	}
	if spec.ItemsIncluded() {
		layout = append(layout, itemColumns...)
	}
	if spec.NotesIncluded() {
		layout = append(layout, notesColumn)
	}
	return layout
}

var baseColumns = []Column{
	{"Order_ID", order(func(o *domain.OrderRecord) any { return o.ID })},
	{"Status", order(func(o *domain.OrderRecord) any { return strings.TrimPrefix(o.Status, domain.StatusPrefix) })},
	{"Order_Date", order(func(o *domain.OrderRecord) any { return formatTime(&o.CreatedAt) })},
	{"Last_Updated", order(func(o *domain.OrderRecord) any { return formatTime(o.ModifiedAt) })},
	{"Order_Total", order(func(o *domain.OrderRecord) any { return o.Total })},
	{"Order_Tax", order(func(o *domain.OrderRecord) any { return o.Tax })},
	{"Currency", order(func(o *domain.OrderRecord) any { return o.Currency })},
	{"Payment_Method", order(func(o *domain.OrderRecord) any { return o.PaymentMethod })},
	{"Payment_Method_Title", order(func(o *domain.OrderRecord) any { return o.PaymentMethodTitle })},
	{"Customer_ID", order(func(o *domain.OrderRecord) any { return o.CustomerID })},
}

var billingColumns = []Column{
	{"Billing_First_Name", billing(func(a *domain.Address) string { return a.FirstName })},
	{"Billing_Last_Name", billing(func(a *domain.Address) string { return a.LastName })},
	{"Billing_Email", billing(func(a *domain.Address) string { return a.Email })},
	{"Billing_Phone", billing(func(a *domain.Address) string { return a.Phone })},
	{"Billing_Company", billing(func(a *domain.Address) string { return a.Company })},
	{"Billing_Address_1", billing(func(a *domain.Address) string { return a.Address1 })},
	{"Billing_Address_2", billing(func(a *domain.Address) string { return a.Address2 })},
	{"Billing_City", billing(func(a *domain.Address) string { return a.City })},
	{"Billing_State", billing(func(a *domain.Address) string { return a.State })},
	{"Billing_Postcode", billing(func(a *domain.Address) string { return a.Postcode })},
	{"Billing_Country", billing(func(a *domain.Address) string { return a.Country })},
}

var shippingColumns = []Column{
	{"Shipping_First_Name", shipping(func(a *domain.Address) string { return a.FirstName })},
	{"Shipping_Last_Name", shipping(func(a *domain.Address) string { return a.LastName })},
	{"Shipping_Address_1", shipping(func(a *domain.Address) string { return a.Address1 })},
	{"Shipping_Address_2", shipping(func(a *domain.Address) string { return a.Address2 })},
	{"Shipping_City", shipping(func(a *domain.Address) string { return a.City })},
	{"Shipping_State", shipping(func(a *domain.Address) string { return a.State })},
	{"Shipping_Postcode", shipping(func(a *domain.Address) string { return a.Postcode })},
	{"Shipping_Country", shipping(func(a *domain.Address) string { return a.Country })},
}

// Колонки позиций: для заказа без позиций все значения — пустая строка, а не ноль.
var itemColumns = []Column{
	{"Order_Item_ID", item(func(it *domain.LineItem) any { return it.ID })},
	{"Product_ID", item(func(it *domain.LineItem) any { return it.ProductID })},
	{"Variation_ID", item(func(it *domain.LineItem) any { return it.VariationID })},
	{"Product_Name", item(func(it *domain.LineItem) any { return it.ProductName })},
	{"Full_Product_Name", item(func(it *domain.LineItem) any { return it.FullProductName() })},
	{"SKU", item(func(it *domain.LineItem) any { return it.SKU })},
	{"Quantity", item(func(it *domain.LineItem) any { return it.Quantity })},
	{"Item_Gross_Revenue", item(func(it *domain.LineItem) any { return it.GrossRevenue })},
	{"Item_Net_Revenue", item(func(it *domain.LineItem) any { return it.NetRevenue })},
	{"Item_Coupon_Amount", item(func(it *domain.LineItem) any { return it.CouponAmount })},
	{"Item_Tax_Amount", item(func(it *domain.LineItem) any { return it.TaxAmount })},
	{"Item_Shipping_Amount", item(func(it *domain.LineItem) any { return it.Shipping })},
	{"Item_Shipping_Tax_Amount", item(func(it *domain.LineItem) any { return it.ShippingTax })},
}

var notesColumn = Column{"Order_Notes", order(func(o *domain.OrderRecord) any {
	return strings.Join(o.Notes, NotesSeparator)
})}

func order(f func(o *domain.OrderRecord) any) Extractor {
	return func(o *domain.OrderRecord, _ *domain.LineItem) any { return f(o) }
}

func billing(f func(a *domain.Address) string) Extractor {
	return func(o *domain.OrderRecord, _ *domain.LineItem) any { return f(&o.Billing) }
}

func shipping(f func(a *domain.Address) string) Extractor {
	return func(o *domain.OrderRecord, _ *domain.LineItem) any { return f(&o.Shipping) }
}

func item(f func(it *domain.LineItem) any) Extractor {
	return func(_ *domain.OrderRecord, it *domain.LineItem) any {
		if it == nil {
			return ""
		}
		return f(it)
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
