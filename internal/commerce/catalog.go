package commerce

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/random"
)

const (
	productIDBase  = 7000000000
	variantIDBase  = 8000000000
	customerIDBase = 9000000000

	paretoShape = 1.5
)

type category struct {
	name  string
	items []string
}

var categories = []category{
	{"Electronics", []string{"Wireless Earbuds", "Smart Watch", "Phone Case", "Charger", "Bluetooth Speaker"}},
	{"Apparel", []string{"Cotton T-Shirt", "Denim Jeans", "Hoodie", "Sneakers", "Cap"}},
	{"Home & Garden", []string{"LED Lamp", "Plant Pot", "Throw Pillow", "Wall Clock", "Candle Set"}},
	{"Beauty", []string{"Face Serum", "Lip Balm Set", "Hair Oil", "Moisturizer", "Sunscreen"}},
}

var variantSuffixes = []string{"", "Pro", "Lite", "Plus", "Premium"}

var (
	firstNames   = []string{"Emma", "Liam", "Olivia", "Noah", "Ava", "Ethan", "Sophia", "Mason"}
	lastNames    = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
	emailDomains = []string{"gmail.com", "yahoo.com", "outlook.com", "icloud.com"}
	customerTags = []string{"vip", "wholesale", "newsletter", "returning", "first-time"}

	usCities    = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"}
	usProvinces = []string{"NY", "CA", "IL", "TX", "AZ"}
)

// CatalogGenerator builds a product catalog and customer base from templated
// attributes. It owns the collections it returns; order generation borrows
// them read-only.
type CatalogGenerator struct {
	src *random.Source
	now func() time.Time
}

// NewCatalogGenerator creates a catalog generator backed by src.
func NewCatalogGenerator(src *random.Source) *CatalogGenerator {
	return &CatalogGenerator{src: src, now: time.Now}
}

// GenerateProducts returns count products. IDs carry an index-derived numeric
// suffix, so they are unique within the batch regardless of random draws.
func (g *CatalogGenerator) GenerateProducts(count int) []Product {
	if count < 0 {
		panic("commerce: GenerateProducts called with negative count")
	}
	products := make([]Product, 0, count)
	for i := 0; i < count; i++ {
		cat := random.Pick(g.src, categories)
		base := random.Pick(g.src, cat.items)
		variant := random.Pick(g.src, variantSuffixes)

		price := decimal.NewFromFloat(g.src.FloatBetween(9.99, 199.99)).Round(2)
		cost := price.Mul(decimal.NewFromFloat(g.src.FloatBetween(0.3, 0.5))).Round(2)
		inventory := g.src.IntBetween(0, 500)

		status := ProductStatusActive
		if inventory == 0 {
			status = ProductStatusDraft
		}

		var compareAt *decimal.Decimal
		if g.src.Chance(0.3) {
			c := price.Mul(decimal.NewFromFloat(1.3)).Round(2)
			compareAt = &c
		}

		products = append(products, Product{
			ID:             fmt.Sprintf("gid://shopify/Product/%d", productIDBase+i),
			Title:          strings.TrimSpace(base + " " + variant),
			Handle:         handle(base, variant),
			Category:       cat.name,
			Vendor:         fmt.Sprintf("Brand%d", g.src.IntBetween(1, 10)),
			SKU:            fmt.Sprintf("SKU-%s-%04d", strings.ToUpper(cat.name[:3]), i),
			Status:         status,
			Price:          price,
			CompareAtPrice: compareAt,
			Cost:           cost,
			Inventory:      inventory,
			CreatedAt:      g.now().AddDate(0, 0, -g.src.IntBetween(30, 365)),
		})
	}
	return products
}

// GenerateCustomers returns count customers. Order counts follow a
// heavy-tailed Pareto draw so a small fraction of customers are
// high-frequency buyers; lifetime spend is derived from the order count.
func (g *CatalogGenerator) GenerateCustomers(count int) []Customer {
	if count < 0 {
		panic("commerce: GenerateCustomers called with negative count")
	}
	customers := make([]Customer, 0, count)
	for i := 0; i < count; i++ {
		first := random.Pick(g.src, firstNames)
		last := random.Pick(g.src, lastNames)

		ordersCount := int(g.src.Pareto(paretoShape))
		totalSpent := decimal.Zero
		if ordersCount > 0 {
			perOrder := decimal.NewFromFloat(g.src.FloatBetween(35, 150))
			totalSpent = perOrder.Mul(decimal.NewFromInt(int64(ordersCount))).Round(2)
		}

		state := "enabled"
		if g.src.Chance(0.25) {
			state = "disabled"
		}

		tags := random.Sample(g.src, customerTags, g.src.IntBetween(0, 3))

		cityIdx := g.src.Intn(len(usCities))
		customers = append(customers, Customer{
			ID:          fmt.Sprintf("gid://shopify/Customer/%d", customerIDBase+i),
			FirstName:   first,
			LastName:    last,
			Email:       fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), g.src.IntBetween(1, 99), random.Pick(g.src, emailDomains)),
			Phone:       fmt.Sprintf("+1%d%09d", g.src.IntBetween(2, 9), g.src.Intn(1000000000)),
			OrdersCount: ordersCount,
			TotalSpent:  totalSpent,
			State:       state,
			Tags:        tags,
			Addresses: []Address{{
				City:        usCities[cityIdx],
				Province:    usProvinces[cityIdx],
				Country:     "United States",
				CountryCode: "US",
			}},
			CreatedAt: g.now().AddDate(0, 0, -g.src.IntBetween(1, 730)),
		})
	}
	return customers
}

func handle(base, variant string) string {
	h := strings.ToLower(base)
	h = strings.ReplaceAll(h, " ", "-")
	if variant != "" {
		h += "-" + strings.ToLower(variant)
	}
	return h
}
