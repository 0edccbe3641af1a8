package llm

// costPerToken stores per-1K-token pricing for known models.
// Prices in USD per 1K tokens: [input, output].
var costPerToken = map[string][2]float64{
	// DeepSeek
	"deepseek-chat":     {0.00027, 0.0011},
	"deepseek-reasoner": {0.00055, 0.00219},

	// Anthropic
	"claude-3-haiku-20240307":  {0.00025, 0.00125},
	"claude-3-sonnet-20240229": {0.003, 0.015},
	"claude-sonnet-4-20250514": {0.003, 0.015},
}

func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	prices, ok := costPerToken[model]
	if !ok {
		return 0
	}
	inputCost := float64(inputTokens) / 1000.0 * prices[0]
	outputCost := float64(outputTokens) / 1000.0 * prices[1]
	return inputCost + outputCost
}
