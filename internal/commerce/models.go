// Package commerce generates a synthetic product catalog, customer base and
// order history with internally consistent monetary totals, and reduces an
// order history into a dashboard summary.
package commerce

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus mirrors the commerce-platform product lifecycle states.
type ProductStatus string

const (
	ProductStatusActive ProductStatus = "ACTIVE"
	ProductStatusDraft  ProductStatus = "DRAFT"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusFulfilled          OrderStatus = "fulfilled"
	OrderStatusUnfulfilled        OrderStatus = "unfulfilled"
	OrderStatusPartiallyFulfilled OrderStatus = "partially_fulfilled"
	OrderStatusCancelled          OrderStatus = "cancelled"
)

// FinancialStatus is the payment state of an order. Refunded is used exactly
// when the order is cancelled.
type FinancialStatus string

const (
	FinancialStatusPaid     FinancialStatus = "paid"
	FinancialStatusRefunded FinancialStatus = "refunded"
)

// Product is one catalog entry. Status is ACTIVE iff Inventory > 0 at
// generation time.
type Product struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Handle         string           `json:"handle"`
	Category       string           `json:"category"`
	Vendor         string           `json:"vendor"`
	SKU            string           `json:"sku"`
	Status         ProductStatus    `json:"status"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Cost           decimal.Decimal  `json:"cost"`
	Inventory      int              `json:"inventory"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Address is a customer shipping address.
type Address struct {
	City        string `json:"city"`
	Province    string `json:"province"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// Customer is one synthetic shopper. TotalSpent is derived from OrdersCount,
// never drawn independently, so a zero-order customer always has zero spend.
type Customer struct {
	ID          string          `json:"id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	OrdersCount int             `json:"orders_count"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	State       string          `json:"state"`
	Tags        []string        `json:"tags"`
	Addresses   []Address       `json:"addresses"`
	CreatedAt   time.Time       `json:"created_at"`
}

// HasTag reports whether the customer carries the given tag.
func (c Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LineItem snapshots a product at order time. Title and Price are copied, not
// live-linked, so orders stay valid if the catalog mutates later.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order is immutable once created. Total = Subtotal - Discount holds exactly.
type Order struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CreatedAt       time.Time       `json:"created_at"`
	ProcessedAt     time.Time       `json:"processed_at"`
	CustomerID      string          `json:"customer_id"`
	CustomerEmail   string          `json:"customer_email"`
	LineItems       []LineItem      `json:"line_items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	FinancialStatus FinancialStatus `json:"financial_status"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
	RiskLevel       string          `json:"risk_level"`
	Refundable      bool            `json:"refundable"`
	Tags            []string        `json:"tags"`
}
