package commerce

import "fmt"

// Edge pairs one exported entry with an opaque position cursor, mirroring the
// commerce-platform GraphQL list shape.
type Edge[T any] struct {
	Node   T      `json:"node"`
	Cursor string `json:"cursor"`
}

// Connection is a paginated edge list.
type Connection[T any] struct {
	Edges []Edge[T] `json:"edges"`
}

// ShopInfo describes the exported shop.
type ShopInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Domain string `json:"myshopifyDomain"`
	Plan   string `json:"plan"`
}

// ThrottleStatus reports the platform-style rate budget.
type ThrottleStatus struct {
	MaximumAvailable   int `json:"maximumAvailable"`
	CurrentlyAvailable int `json:"currentlyAvailable"`
	RestoreRate        int `json:"restoreRate"`
}

// QueryCost is the platform-style cost metadata block.
type QueryCost struct {
	RequestedQueryCost int            `json:"requestedQueryCost"`
	ActualQueryCost    int            `json:"actualQueryCost"`
	ThrottleStatus     ThrottleStatus `json:"throttleStatus"`
}

// Extensions wraps the cost block.
type Extensions struct {
	Cost QueryCost `json:"cost"`
}

// ShopData is the data block of a platform-shaped export.
type ShopData struct {
	Shop      ShopInfo             `json:"shop"`
	Products  Connection[Product]  `json:"products"`
	Customers Connection[Customer] `json:"customers"`
	Orders    Connection[Order]    `json:"orders"`
}

// ShopDataExport is the full response envelope, shaped like a commerce
// GraphQL API reply so downstream consumers expecting that shape can ingest
// it unchanged.
type ShopDataExport struct {
	Data       ShopData   `json:"data"`
	Extensions Extensions `json:"extensions"`
}

// ExportShopData wraps the generated collections into the paginated edge-list
// export shape. Cursors are positional and opaque; consumers must not parse
// them.
func ExportShopData(shopID string, products []Product, customers []Customer, orders []Order) *ShopDataExport {
	return &ShopDataExport{
		Data: ShopData{
			Shop: ShopInfo{
				ID:     fmt.Sprintf("gid://shopify/Shop/%s", shopID),
				Name:   "Demo Test Store",
				Email:  "owner@demo-store.com",
				Domain: "demo-store.myshopify.com",
				Plan:   "Shopify Plus",
			},
			Products:  connect(products),
			Customers: connect(customers),
			Orders:    connect(orders),
		},
		Extensions: Extensions{
			Cost: QueryCost{
				RequestedQueryCost: 752,
				ActualQueryCost:    752,
				ThrottleStatus: ThrottleStatus{
					MaximumAvailable:   2000,
					CurrentlyAvailable: 1248,
					RestoreRate:        100,
				},
			},
		},
	}
}

func connect[T any](items []T) Connection[T] {
	edges := make([]Edge[T], 0, len(items))
	for i, item := range items {
		edges = append(edges, Edge[T]{Node: item, Cursor: fmt.Sprintf("cursor_%d", i)})
	}
	return Connection[T]{Edges: edges}
}
