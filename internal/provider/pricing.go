package provider

// pricePerMillion holds USD cost per million tokens, input and output,
// for models the engine has been run against. Models not listed fall
// back to the "default" entry; estimated_cost is always a best-effort
// figure, not a billing record.
var pricePerMillion = map[string]struct{ Input, Output float64 }{
	"claude-sonnet-4-5":   {Input: 3.00, Output: 15.00},
	"claude-opus-4-1":     {Input: 15.00, Output: 75.00},
	"claude-haiku-4-5":    {Input: 0.80, Output: 4.00},
	"default":             {Input: 3.00, Output: 15.00},
}

// EstimatedCost computes a rough USD cost for a request's accumulated
// token usage under the given model's published per-million-token rate.
func EstimatedCost(model string, inputTokens, outputTokens int) float64 {
	rate, ok := pricePerMillion[model]
	if !ok {
		rate = pricePerMillion["default"]
	}
	return float64(inputTokens)/1_000_000*rate.Input + float64(outputTokens)/1_000_000*rate.Output
}
