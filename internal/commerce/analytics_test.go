package commerce

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/random"
)

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func paidOrder(id string, total float64, createdAt time.Time) Order {
	return Order{
		ID:              id,
		CreatedAt:       createdAt,
		Total:           money(total),
		Subtotal:        money(total),
		Discount:        decimal.Zero,
		Status:          OrderStatusFulfilled,
		FinancialStatus: FinancialStatusPaid,
	}
}

func TestSummarizePaidOnlyRevenue(t *testing.T) {
	now := time.Now()
	cancelled := paidOrder("o3", 500, now)
	cancelled.Status = OrderStatusCancelled
	cancelled.FinancialStatus = FinancialStatusRefunded

	orders := []Order{
		paidOrder("o1", 100, now),
		paidOrder("o2", 50, now),
		cancelled,
	}

	summary := NewAggregator("shop").Summarize(orders, nil, nil)

	assert.Equal(t, 2, summary.Metrics.TotalOrders)
	assert.True(t, summary.Metrics.TotalRevenue.Equal(money(150)),
		"refunded orders must not contribute revenue, got %s", summary.Metrics.TotalRevenue)
	assert.True(t, summary.Metrics.AverageOrderValue.Equal(money(75)))
}

func TestSummarizeZeroPaidOrders(t *testing.T) {
	cancelled := paidOrder("o1", 100, time.Now())
	cancelled.Status = OrderStatusCancelled
	cancelled.FinancialStatus = FinancialStatusRefunded

	summary := NewAggregator("shop").Summarize([]Order{cancelled}, nil, nil)

	assert.Equal(t, 0, summary.Metrics.TotalOrders)
	assert.True(t, summary.Metrics.AverageOrderValue.IsZero(),
		"AOV must be zero when there are no paid orders")
}

func TestSummarizeTrailingSevenDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	a := NewAggregator("shop")
	a.now = func() time.Time { return now }

	recentRefunded := paidOrder("o3", 999, now.Add(-24*time.Hour))
	recentRefunded.Status = OrderStatusCancelled
	recentRefunded.FinancialStatus = FinancialStatusRefunded

	orders := []Order{
		paidOrder("o1", 100, now.Add(-2*24*time.Hour)),  // inside window, paid
		paidOrder("o2", 200, now.Add(-10*24*time.Hour)), // outside window
		recentRefunded,                                  // inside window, not paid
	}

	summary := a.Summarize(orders, nil, nil)

	assert.Equal(t, 2, summary.Metrics.Last7DaysOrders, "recent count includes unpaid orders")
	assert.True(t, summary.Metrics.Last7DaysRevenue.Equal(money(100)),
		"recent revenue is paid-only, got %s", summary.Metrics.Last7DaysRevenue)
}

func TestTopProductsRanking(t *testing.T) {
	now := time.Now()
	order := func(id string, items ...LineItem) Order {
		o := paidOrder(id, 0, now)
		o.LineItems = items
		return o
	}

	cancelled := order("o3", LineItem{ProductID: "p2", Title: "B", Price: money(10), Quantity: 5})
	cancelled.Status = OrderStatusCancelled
	cancelled.FinancialStatus = FinancialStatusRefunded

	orders := []Order{
		order("o1",
			LineItem{ProductID: "p1", Title: "A", Price: money(20), Quantity: 1},
			LineItem{ProductID: "p2", Title: "B", Price: money(10), Quantity: 2}),
		order("o2", LineItem{ProductID: "p1", Title: "A", Price: money(20), Quantity: 2}),
		cancelled,
	}

	top := TopProducts(orders, 10)
	require.Len(t, top, 2)

	// p2 accumulates 70 across paid and cancelled orders, p1 only 60:
	// the ranking counts raw sales volume, not recognized revenue.
	assert.Equal(t, "p2", top[0].ID)
	assert.True(t, top[0].Revenue.Equal(money(70)))
	assert.Equal(t, 7, top[0].UnitsSold)
	assert.Equal(t, "p1", top[1].ID)
	assert.True(t, top[1].Revenue.Equal(money(60)))
	assert.Equal(t, 3, top[1].UnitsSold)
}

func TestTopProductsLimitAndOrder(t *testing.T) {
	products, customers := testCatalog(t, 11)
	orders := NewOrderGenerator(random.New(12)).GenerateOrders(300, products, customers)

	top := TopProducts(orders, 10)
	assert.LessOrEqual(t, len(top), 10)
	for i := 1; i < len(top); i++ {
		assert.True(t, top[i].Revenue.LessThanOrEqual(top[i-1].Revenue),
			"top products must be sorted descending by revenue")
	}
}

func TestCustomerSegments(t *testing.T) {
	customers := []Customer{
		{ID: "c1", OrdersCount: 1},
		{ID: "c2", OrdersCount: 1, Tags: []string{"vip"}},
		{ID: "c3", OrdersCount: 4},
		{ID: "c4", OrdersCount: 0},
	}

	segments := segmentCustomers(customers)
	assert.Equal(t, 2, segments.NewCustomers)
	assert.Equal(t, 1, segments.ReturningCustomers)
	assert.Equal(t, 1, segments.VIPCustomers, "vip overlaps with new/returning")
}

func TestInventoryStatus(t *testing.T) {
	products := []Product{
		{ID: "p1", Inventory: 100},
		{ID: "p2", Inventory: 11},
		{ID: "p3", Inventory: 10},
		{ID: "p4", Inventory: 1},
		{ID: "p5", Inventory: 0},
	}

	status := inventoryStatus(products)
	assert.Equal(t, 2, status.InStock)
	assert.Equal(t, 2, status.LowStock)
	assert.Equal(t, 1, status.OutOfStock)
}
