package domain

import "github.com/shopspring/decimal"

// Condition partitions stock into new and used items.
type Condition string

const (
	CondNew  Condition = "new"
	CondUsed Condition = "used"
)

// Location partitions stock into the warehouse and the sales floor.
type Location string

const (
	LocStock Location = "stock"
	LocStore Location = "store"
)

func (c Condition) Valid() bool { return c == CondNew || c == CondUsed }
func (l Location) Valid() bool  { return l == LocStock || l == LocStore }

type Category struct {
	ID        string `db:"id" json:"_id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

type SubCategory struct {
	ID         string `db:"id" json:"_id"`
	CategoryID string `db:"category_id" json:"categoryId"`
	Name       string `db:"name" json:"name"`
}

type Product struct {
	ID           string `db:"id" json:"_id"`
	Name         string `db:"name" json:"name"`
	Category     string `db:"category" json:"category"`
	SubCategory  string `db:"sub_category" json:"subCategory"`
	Description  string `db:"description" json:"description"`
	Description2 string `db:"description2" json:"description2,omitempty"`
	EANCode      string `db:"ean_code" json:"eanCode"`
	SerialNumber string `db:"serial_number" json:"serialNumber,omitempty"`
	Bestseller   bool   `db:"bestseller" json:"bestseller"`
	Active       bool   `db:"active" json:"active"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
	UpdatedAt    string `db:"updated_at" json:"updatedAt,omitempty"`
}

// StockRecord is the per-product stock ledger: four non-negative
// counters (condition x location) and a price per condition.
type StockRecord struct {
	ProductID     string          `db:"product_id"`
	QtyStockNew   int             `db:"qty_stock_new"`
	QtyStockUsed  int             `db:"qty_stock_used"`
	QtyStoreNew   int             `db:"qty_store_new"`
	QtyStoreUsed  int             `db:"qty_store_used"`
	PriceNew      decimal.Decimal `db:"price_new"`
	PriceUsed     decimal.Decimal `db:"price_used"`
	DocumentsJSON string          `db:"documents_json"`
	UpdatedAt     string          `db:"updated_at"`
}

// OutOfStock is derived, never stored: all four counters at zero.
func (r StockRecord) OutOfStock() bool {
	return r.QtyStockNew == 0 && r.QtyStockUsed == 0 && r.QtyStoreNew == 0 && r.QtyStoreUsed == 0
}

type QtyPair struct {
	New  int `json:"new"`
	Used int `json:"used"`
}

type PricePair struct {
	New  decimal.Decimal `json:"new"`
	Used decimal.Decimal `json:"used"`
}

// StockView is the wire shape the admin client expects for one
// (product, stock record) pair.
type StockView struct {
	Product         Product   `json:"product"`
	QuantityInStock QtyPair   `json:"quantityInStock"`
	QuantityInStore QtyPair   `json:"quantityInStore"`
	Price           PricePair `json:"price"`
	InStock         bool      `json:"inStock"`
	InStore         bool      `json:"inStore"`
	OutOfStock      bool      `json:"outOfStock"`
	Documents       []string  `json:"documents,omitempty"`
}

// Unit is one physical item materialized from a counter. Its ID is
// stable only within one aggregation pass.
type Unit struct {
	ID        string    `json:"uniqueId"`
	Product   Product   `json:"product"`
	Condition Condition `json:"condition"`
	Location  Location  `json:"location"`
}

// StockUnit is an explicitly persisted per-item row carrying its own
// scan identity. Row counts per (product, condition, location) shadow
// the StockRecord counters.
type StockUnit struct {
	ID           string    `db:"id" json:"_id"`
	ProductID    string    `db:"product_id" json:"productId"`
	EANCode      string    `db:"ean_code" json:"eanCode"`
	SerialNumber string    `db:"serial_number" json:"serialNumber"`
	Condition    Condition `db:"condition" json:"condition"`
	Location     Location  `db:"location" json:"location"`
	CreatedAt    string    `db:"created_at" json:"createdAt"`
}

type Buyback struct {
	ID          string          `db:"id" json:"_id"`
	FirstName   string          `db:"first_name" json:"firstName"`
	LastName    string          `db:"last_name" json:"lastName"`
	Nationality string          `db:"nationality" json:"nationality"`
	Residence   string          `db:"residence" json:"residence"`
	DateOfBirth string          `db:"date_of_birth" json:"dateOfBirth"`
	PhoneNumber string          `db:"phone_number" json:"phoneNumber"`
	Percent     decimal.Decimal `db:"percent" json:"percent"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
}

type BuybackItem struct {
	ID             string          `db:"id" json:"_id"`
	BuybackID      string          `db:"buyback_id" json:"buybackId"`
	ProductID      string          `db:"product_id" json:"productId,omitempty"`
	Name           string          `db:"name" json:"name"`
	Category       string          `db:"category" json:"category"`
	ReferencePrice decimal.Decimal `db:"reference_price" json:"referencePrice"`
	BuybackPrice   decimal.Decimal `db:"buyback_price" json:"buybackPrice"`
	Overridden     bool            `db:"overridden" json:"overridden"`
}

// Order is a shop order as the admin screens manage it: delivery
// address flattened into the row, lines in order_items.
type Order struct {
	ID            string          `db:"id"`
	FirstName     string          `db:"first_name"`
	LastName      string          `db:"last_name"`
	Street        string          `db:"street"`
	City          string          `db:"city"`
	State         string          `db:"state"`
	Country       string          `db:"country"`
	Zipcode       string          `db:"zipcode"`
	Phone         string          `db:"phone"`
	PaymentMethod string          `db:"payment_method"`
	Payment       bool            `db:"payment"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	CreatedAt     string          `db:"created_at"`
}

type OrderItem struct {
	ID        string `db:"id" json:"_id"`
	OrderID   string `db:"order_id" json:"-"`
	ProductID string `db:"product_id" json:"productId,omitempty"`
	Name      string `db:"name" json:"name"`
	Quantity  int    `db:"quantity" json:"quantity"`
	Size      string `db:"size" json:"size"`
}

type OrderAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Zipcode   string `json:"zipcode"`
	Phone     string `json:"phone"`
}

// OrderView is the wire shape the orders screen renders.
type OrderView struct {
	ID            string          `json:"_id"`
	Items         []OrderItem     `json:"items"`
	Address       OrderAddress    `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	Payment       bool            `json:"payment"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

type Console struct {
	ID        string `db:"id" json:"_id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

type Reservation struct {
	ID            string `db:"id" json:"_id"`
	ConsoleID     string `db:"console_id" json:"consoleId"`
	ConsoleName   string `db:"console_name" json:"console"`
	DateTime      string `db:"date_time" json:"dateTime"`
	DurationHours int    `db:"duration_hours" json:"duration"`
	Persons       int    `db:"persons" json:"persons"`
	CustomerName  string `db:"customer_name" json:"customerName"`
	PhoneNumber   string `db:"phone_number" json:"phoneNumber"`
	CreatedAt     string `db:"created_at" json:"createdAt"`
}
