package domain

import "time"

// OrderRecord — заказ в нейтральном (не зависящем от схемы хранения) виде.
// Обе стратегии выборки возвращают именно его, колонки строятся уже поверх.
type OrderRecord struct {
	ID                 int64
	Status             string
	CreatedAt          time.Time
	ModifiedAt         *time.Time
	Total              string // денежные суммы — как есть из БД (decimal в текстовом виде)
	Tax                string
	Currency           string
	PaymentMethod      string
	PaymentMethodTitle string
	CustomerID         int64

	Billing  Address
	Shipping Address
	Notes    []string
	Items    []LineItem
}

// Address — адрес (billing или shipping).
type Address struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Address1  string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
}

// LineItem — позиция заказа.
type LineItem struct {
	ID            int64
	ProductID     int64
	VariationID   int64
	ProductName   string
	VariationName string
	SKU           string
	Quantity      int64
	GrossRevenue  string
	NetRevenue    string
	CouponAmount  string
	TaxAmount     string
	Shipping      string
	ShippingTax   string
}

// FullProductName — имя товара с названием вариации (если она есть).
func (it LineItem) FullProductName() string {
	if it.VariationID > 0 && it.VariationName != "" {
		return it.ProductName + " - " + it.VariationName
	}
	return it.ProductName
}
