package ai

import "strings"

// Per-million-token prices in USD.
type modelPricing struct {
	InputUSD  float64
	OutputUSD float64
}

// pricingTable maps model family prefixes to published prices. Unknown
// models estimate at the sonnet rate.
var pricingTable = map[string]modelPricing{
	"claude-opus":   {InputUSD: 15.00, OutputUSD: 75.00},
	"claude-sonnet": {InputUSD: 3.00, OutputUSD: 15.00},
	"claude-haiku":  {InputUSD: 0.80, OutputUSD: 4.00},
}

const defaultPricingKey = "claude-sonnet"

// CostUSD estimates the dollar cost of one call from its token usage.
func CostUSD(model string, usage Usage) float64 {
	pricing := pricingTable[defaultPricingKey]
	for prefix, p := range pricingTable {
		if strings.HasPrefix(model, prefix) {
			pricing = p
			break
		}
	}
	const perMillion = 1_000_000
	return float64(usage.InputTokens)/perMillion*pricing.InputUSD +
		float64(usage.OutputTokens)/perMillion*pricing.OutputUSD
}
