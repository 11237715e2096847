package commerce

import (
	"encoding/json"
	"fmt"
)

const (
	promptOrderSample   = 10
	promptProductSample = 5
)

const promptTemplate = `You are an expert e-commerce analyst. Analyze this store data and identify:
1. Revenue patterns and trends
2. Customer behavior insights
3. Product performance issues
4. Inventory optimization opportunities
5. Actionable recommendations to increase revenue

## Store Analytics Summary
` + "```json\n%s\n```" + `

## Recent Orders Sample
` + "```json\n%s\n```" + `

## Product Catalog (Sample)
` + "```json\n%s\n```" + `

Provide a structured analysis with:
- Key patterns identified
- Risk factors
- Growth opportunities
- Prioritized action items (with expected impact)

Respond in JSON format with these keys:
- patterns: list of identified patterns
- risks: list of risk factors
- opportunities: list of growth opportunities
- actions: list of prioritized actions with expected_uplift
- overall_health_score: 1-100
- summary: 2-3 sentence executive summary
`

// ComposePrompt serializes a summary plus capped order and catalog samples
// into the analysis request template. It performs no analytics of its own.
func ComposePrompt(summary *AnalyticsSummary, orders []Order, products []Product) (string, error) {
	if len(orders) > promptOrderSample {
		orders = orders[:promptOrderSample]
	}
	if len(products) > promptProductSample {
		products = products[:promptProductSample]
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	ordersJSON, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal orders: %w", err)
	}
	productsJSON, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal products: %w", err)
	}

	return fmt.Sprintf(promptTemplate, summaryJSON, ordersJSON, productsJSON), nil
}
