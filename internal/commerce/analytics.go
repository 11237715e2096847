package commerce

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	topProductLimit  = 10
	lowStockCeiling  = 10
	trailingWindow   = 7 * 24 * time.Hour
	summaryPeriodTag = "last_90_days"
)

// SummaryMetrics holds the headline revenue figures. Revenue, order count and
// AOV cover paid orders only.
type SummaryMetrics struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalOrders        int             `json:"total_orders"`
	AverageOrderValue  decimal.Decimal `json:"average_order_value"`
	Last7DaysRevenue   decimal.Decimal `json:"last_7_days_revenue"`
	Last7DaysOrders    int             `json:"last_7_days_orders"`
	TotalCustomers     int             `json:"total_customers"`
	TotalProducts      int             `json:"total_products"`
}

// ProductSales accumulates units sold and revenue for one product across the
// order history. It counts every order regardless of financial status, so the
// ranking reflects raw sales volume rather than recognized revenue.
type ProductSales struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CustomerSegments counts customers per segment. Segments overlap: a vip
// customer is also counted as new or returning.
type CustomerSegments struct {
	NewCustomers       int `json:"new_customers"`
	ReturningCustomers int `json:"returning_customers"`
	VIPCustomers       int `json:"vip_customers"`
}

// InventoryStatus counts products per stock level.
type InventoryStatus struct {
	InStock    int `json:"in_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// AnalyticsSummary is a point-in-time reduction over an order history. It is
// derived on demand and never stored.
type AnalyticsSummary struct {
	ShopID           string           `json:"shop_id"`
	GeneratedAt      time.Time        `json:"generated_at"`
	Period           string           `json:"period"`
	Metrics          SummaryMetrics   `json:"metrics"`
	TopProducts      []ProductSales   `json:"top_products"`
	CustomerSegments CustomerSegments `json:"customer_segments"`
	InventoryStatus  InventoryStatus  `json:"inventory_status"`
}

// Aggregator reduces commerce collections into an AnalyticsSummary.
type Aggregator struct {
	shopID string
	now    func() time.Time
}

// NewAggregator creates an aggregator reporting under the given shop ID.
func NewAggregator(shopID string) *Aggregator {
	return &Aggregator{shopID: shopID, now: time.Now}
}

// Summarize computes the dashboard summary. It borrows the inputs read-only
// and retains no references afterward.
func (a *Aggregator) Summarize(orders []Order, customers []Customer, products []Product) *AnalyticsSummary {
	now := a.now()

	totalRevenue := decimal.Zero
	paidCount := 0
	for _, o := range orders {
		if o.FinancialStatus == FinancialStatusPaid {
			totalRevenue = totalRevenue.Add(o.Total)
			paidCount++
		}
	}

	aov := decimal.Zero
	if paidCount > 0 {
		aov = totalRevenue.Div(decimal.NewFromInt(int64(paidCount))).Round(2)
	}

	cutoff := now.Add(-trailingWindow)
	recentRevenue := decimal.Zero
	recentCount := 0
	for _, o := range orders {
		if !o.CreatedAt.After(cutoff) {
			continue
		}
		recentCount++
		if o.FinancialStatus == FinancialStatusPaid {
			recentRevenue = recentRevenue.Add(o.Total)
		}
	}

	return &AnalyticsSummary{
		ShopID:      a.shopID,
		GeneratedAt: now,
		Period:      summaryPeriodTag,
		Metrics: SummaryMetrics{
			TotalRevenue:      totalRevenue.Round(2),
			TotalOrders:       paidCount,
			AverageOrderValue: aov,
			Last7DaysRevenue:  recentRevenue.Round(2),
			Last7DaysOrders:   recentCount,
			TotalCustomers:    len(customers),
			TotalProducts:     len(products),
		},
		TopProducts:      TopProducts(orders, topProductLimit),
		CustomerSegments: segmentCustomers(customers),
		InventoryStatus:  inventoryStatus(products),
	}
}

// TopProducts ranks products by revenue accumulated across all orders' line
// items, paid and unpaid alike, and returns at most limit entries. Ties keep
// their first-seen order.
func TopProducts(orders []Order, limit int) []ProductSales {
	byID := make(map[string]*ProductSales)
	seen := make([]string, 0)
	for _, o := range orders {
		for _, li := range o.LineItems {
			sales, ok := byID[li.ProductID]
			if !ok {
				sales = &ProductSales{ID: li.ProductID, Title: li.Title, Revenue: decimal.Zero}
				byID[li.ProductID] = sales
				seen = append(seen, li.ProductID)
			}
			sales.UnitsSold += li.Quantity
			sales.Revenue = sales.Revenue.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
		}
	}

	ranked := make([]ProductSales, 0, len(seen))
	for _, id := range seen {
		ranked = append(ranked, *byID[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func segmentCustomers(customers []Customer) CustomerSegments {
	var s CustomerSegments
	for _, c := range customers {
		switch {
		case c.OrdersCount == 1:
			s.NewCustomers++
		case c.OrdersCount > 1:
			s.ReturningCustomers++
		}
		if c.HasTag("vip") {
			s.VIPCustomers++
		}
	}
	return s
}

func inventoryStatus(products []Product) InventoryStatus {
	var s InventoryStatus
	for _, p := range products {
		switch {
		case p.Inventory > lowStockCeiling:
			s.InStock++
		case p.Inventory > 0:
			s.LowStock++
		default:
			s.OutOfStock++
		}
	}
	return s
}
