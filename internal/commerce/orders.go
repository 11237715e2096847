package commerce

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/random"
)

const (
	orderIDBase = 1000000000

	// Orders are spread across a trailing window of this many days.
	orderWindowDays = 90

	discountProbability = 0.3
)

var lineItemCountWeights = []random.Weighted[int]{
	{Value: 1, Weight: 0.5},
	{Value: 2, Weight: 0.3},
	{Value: 3, Weight: 0.15},
	{Value: 4, Weight: 0.05},
}

var quantityWeights = []random.Weighted[int]{
	{Value: 1, Weight: 0.7},
	{Value: 2, Weight: 0.2},
	{Value: 3, Weight: 0.1},
}

var orderStatusWeights = []random.Weighted[OrderStatus]{
	{Value: OrderStatusFulfilled, Weight: 0.8},
	{Value: OrderStatusUnfulfilled, Weight: 0.1},
	{Value: OrderStatusPartiallyFulfilled, Weight: 0.05},
	{Value: OrderStatusCancelled, Weight: 0.05},
}

var riskLevelWeights = []random.Weighted[string]{
	{Value: "LOW", Weight: 0.6},
	{Value: "MEDIUM", Weight: 0.2},
	{Value: "HIGH", Weight: 0.2},
}

// OrderGenerator builds a time-ordered order history referencing an existing
// catalog and customer base.
type OrderGenerator struct {
	src *random.Source
	now func() time.Time
}

// NewOrderGenerator creates an order generator backed by src.
func NewOrderGenerator(src *random.Source) *OrderGenerator {
	return &OrderGenerator{src: src, now: time.Now}
}

// GenerateOrders returns count orders sorted descending by creation time.
// The catalog and customer base must be non-empty; an empty collection with a
// positive count is a programmer error and panics.
func (g *OrderGenerator) GenerateOrders(count int, products []Product, customers []Customer) []Order {
	if count < 0 {
		panic("commerce: GenerateOrders called with negative count")
	}
	if count > 0 && (len(products) == 0 || len(customers) == 0) {
		panic("commerce: GenerateOrders requires a non-empty catalog and customer base")
	}

	base := g.now()
	orders := make([]Order, 0, count)
	for i := 0; i < count; i++ {
		createdAt := base.
			AddDate(0, 0, -g.src.IntBetween(0, orderWindowDays)).
			Add(-time.Duration(g.src.IntBetween(0, 23)) * time.Hour).
			Add(-time.Duration(g.src.IntBetween(0, 59)) * time.Minute)

		customer := random.Pick(g.src, customers)

		itemCount := random.Choose(g.src, lineItemCountWeights)
		if itemCount > len(products) {
			itemCount = len(products)
		}
		picked := random.Sample(g.src, products, itemCount)

		lineItems := make([]LineItem, 0, itemCount)
		subtotal := decimal.Zero
		for _, p := range picked {
			quantity := random.Choose(g.src, quantityWeights)
			subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(quantity))))

			lineItems = append(lineItems, LineItem{
				ID:        fmt.Sprintf("gid://shopify/LineItem/%s", strings.ReplaceAll(uuid.New().String(), "-", "")[:16]),
				ProductID: p.ID,
				Title:     p.Title,
				Price:     p.Price,
				Quantity:  quantity,
			})
		}

		discount := decimal.Zero
		if g.src.Chance(discountProbability) {
			discount = subtotal.Mul(decimal.NewFromFloat(g.src.FloatBetween(0.05, 0.2))).Round(2)
		}
		total := subtotal.Sub(discount)

		status := random.Choose(g.src, orderStatusWeights)
		financial := FinancialStatusPaid
		if status == OrderStatusCancelled {
			financial = FinancialStatusRefunded
		}

		var shipping *Address
		if len(customer.Addresses) > 0 {
			addr := customer.Addresses[0]
			shipping = &addr
		}

		orders = append(orders, Order{
			ID:              fmt.Sprintf("gid://shopify/Order/%d", orderIDBase+i),
			Name:            fmt.Sprintf("#100%d", i+1),
			CreatedAt:       createdAt,
			ProcessedAt:     createdAt,
			CustomerID:      customer.ID,
			CustomerEmail:   customer.Email,
			LineItems:       lineItems,
			Subtotal:        subtotal,
			Discount:        discount,
			Total:           total,
			Status:          status,
			FinancialStatus: financial,
			ShippingAddress: shipping,
			RiskLevel:       random.Choose(g.src, riskLevelWeights),
			Refundable:      status == OrderStatusFulfilled,
			Tags:            []string{},
		})
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}
