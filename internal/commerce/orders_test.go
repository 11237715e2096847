package commerce

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/random"
)

func testCatalog(t *testing.T, seed int64) ([]Product, []Customer) {
	t.Helper()
	g := NewCatalogGenerator(random.New(seed))
	return g.GenerateProducts(20), g.GenerateCustomers(50)
}

func TestGenerateOrdersInvariants(t *testing.T) {
	products, customers := testCatalog(t, 1)
	orders := NewOrderGenerator(random.New(2)).GenerateOrders(200, products, customers)
	require.Len(t, orders, 200)

	for _, o := range orders {
		sum := decimal.Zero
		for _, li := range o.LineItems {
			assert.GreaterOrEqual(t, li.Quantity, 1)
			sum = sum.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
		}
		assert.True(t, o.Subtotal.Equal(sum),
			"subtotal must equal line item sum: %s vs %s", o.Subtotal, sum)
		assert.True(t, o.Total.Equal(o.Subtotal.Sub(o.Discount)),
			"total must equal subtotal minus discount")
		assert.True(t, o.Discount.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, o.Discount.LessThanOrEqual(o.Subtotal))

		if o.Status == OrderStatusCancelled {
			assert.Equal(t, FinancialStatusRefunded, o.FinancialStatus)
		} else {
			assert.Equal(t, FinancialStatusPaid, o.FinancialStatus)
		}

		assert.NotEmpty(t, o.CustomerID)
		require.NotNil(t, o.ShippingAddress)
	}
}

func TestGenerateOrdersSortedDescending(t *testing.T) {
	products, customers := testCatalog(t, 3)
	orders := NewOrderGenerator(random.New(4)).GenerateOrders(100, products, customers)

	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.After(orders[i-1].CreatedAt),
			"orders must be sorted descending by creation time")
	}
}

func TestGenerateOrdersWithinWindow(t *testing.T) {
	products, customers := testCatalog(t, 5)
	before := time.Now()
	orders := NewOrderGenerator(random.New(6)).GenerateOrders(50, products, customers)

	oldest := before.AddDate(0, 0, -91).Add(-25 * time.Hour)
	for _, o := range orders {
		assert.True(t, o.CreatedAt.After(oldest), "order older than the trailing window: %s", o.CreatedAt)
		assert.False(t, o.CreatedAt.After(time.Now()))
	}
}

func TestGenerateOrdersLineItemsDistinct(t *testing.T) {
	products, customers := testCatalog(t, 7)
	orders := NewOrderGenerator(random.New(8)).GenerateOrders(100, products, customers)

	for _, o := range orders {
		require.NotEmpty(t, o.LineItems)
		assert.LessOrEqual(t, len(o.LineItems), 4)
		seen := map[string]bool{}
		for _, li := range o.LineItems {
			assert.False(t, seen[li.ProductID], "line items must reference distinct products")
			seen[li.ProductID] = true
		}
	}
}

func TestGenerateOrdersSingleProductCatalog(t *testing.T) {
	price := decimal.NewFromFloat(50.00)
	catalog := []Product{{
		ID:        "gid://shopify/Product/1",
		Title:     "Premium Widget",
		Price:     price,
		Cost:      decimal.NewFromFloat(20.00),
		Inventory: 10,
		Status:    ProductStatusActive,
	}}
	customers := []Customer{{
		ID:        "gid://shopify/Customer/1",
		Email:     "buyer@example.com",
		Addresses: []Address{{City: "New York", CountryCode: "US"}},
	}}

	// Walk seeds until the draws give quantity 1 and no discount; the point
	// is the arithmetic, not the draw.
	for seed := int64(0); seed < 100; seed++ {
		orders := NewOrderGenerator(random.New(seed)).GenerateOrders(1, catalog, customers)
		require.Len(t, orders, 1)
		o := orders[0]
		require.Len(t, o.LineItems, 1)

		if o.LineItems[0].Quantity != 1 || !o.Discount.IsZero() {
			continue
		}
		assert.True(t, o.Subtotal.Equal(price))
		assert.True(t, o.Total.Equal(price))
		assert.True(t, o.Discount.IsZero())
		return
	}
	t.Fatal("no seed in range produced a quantity-1 undiscounted order")
}

func TestGenerateOrdersPreconditions(t *testing.T) {
	products, customers := testCatalog(t, 9)
	g := NewOrderGenerator(random.New(10))

	assert.Empty(t, g.GenerateOrders(0, nil, nil))
	assert.Panics(t, func() { g.GenerateOrders(1, nil, customers) })
	assert.Panics(t, func() { g.GenerateOrders(1, products, nil) })
	assert.Panics(t, func() { g.GenerateOrders(-1, products, customers) })
}
