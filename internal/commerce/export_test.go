package commerce

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/random"
)

func TestExportShopData(t *testing.T) {
	products, customers := testCatalog(t, 30)
	orders := NewOrderGenerator(random.New(31)).GenerateOrders(25, products, customers)

	export := ExportShopData("demo-shop-id", products, customers, orders)

	assert.Equal(t, "gid://shopify/Shop/demo-shop-id", export.Data.Shop.ID)
	require.Len(t, export.Data.Products.Edges, len(products))
	require.Len(t, export.Data.Customers.Edges, len(customers))
	require.Len(t, export.Data.Orders.Edges, len(orders))

	for i, edge := range export.Data.Orders.Edges {
		assert.Equal(t, fmt.Sprintf("cursor_%d", i), edge.Cursor)
		assert.Equal(t, orders[i].ID, edge.Node.ID)
	}

	assert.Equal(t, 2000, export.Extensions.Cost.ThrottleStatus.MaximumAvailable)
}

func TestExportShopDataJSONShape(t *testing.T) {
	products, customers := testCatalog(t, 32)
	orders := NewOrderGenerator(random.New(33)).GenerateOrders(2, products, customers)

	raw, err := json.Marshal(ExportShopData("shop", products[:1], customers[:1], orders))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	data, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	productsBlock, ok := data["products"].(map[string]any)
	require.True(t, ok)
	edges, ok := productsBlock["edges"].([]any)
	require.True(t, ok)
	require.Len(t, edges, 1)

	first, ok := edges[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, first, "node")
	assert.Contains(t, first, "cursor")

	extensions, ok := decoded["extensions"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, extensions, "cost")
}
