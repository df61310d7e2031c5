package extract

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/fin-comb/app/feed"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const systemPrompt = "You are a financial analyst identifying stocks, the overall market update type, " +
	"and relevant investor types in news articles. Provide concise and deterministic outputs."

func buildUserPrompt(content string) string {
	var b strings.Builder

	b.WriteString("Analyze the following article content and:\n")
	b.WriteString("1. Identify any stocks or companies mentioned. Use only official ticker symbols.\n")
	fmt.Fprintf(&b, "2. Determine the most relevant overall type of market update from this list:\n   %s\n", quoteList(feed.MarketUpdateTypes))
	b.WriteString("   Choose only one type that best describes the overall content of the article.\n")
	fmt.Fprintf(&b, "3. Determine which types of investors would find this article most relevant from this list:\n   %s\n", quoteList(feed.InvestorTypes))
	fmt.Fprintf(&b, "   Choose only the most relevant types. Limit your selection to at most %d types.\n\n", feed.MaxInvestorTypes)
	b.WriteString("Article content:\n")
	b.WriteString(content)
	b.WriteString("\n\nProvide the output as a JSON object with three fields:\n")
	b.WriteString("1. 'stocks': an array of objects, each with a 'ticker' field.\n")
	b.WriteString("2. 'market_update': a single string from the provided list of market update types.\n")
	b.WriteString("3. 'investor_types': an array of strings from the provided list of investor types.\n\n")
	b.WriteString("If no stocks are mentioned, return an empty array for 'stocks'.\n")
	b.WriteString("If no investor types are clearly relevant, return an empty array for 'investor_types'.\n")

	return b.String()
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// analysisSchema mirrors feed.Analysis and pins the closed vocabularies.
func analysisSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"stocks": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"ticker": {Type: jsonschema.String, Description: "Official ticker symbol"},
					},
					Required:             []string{"ticker"},
					AdditionalProperties: false,
				},
			},
			"market_update": {
				Type: jsonschema.String,
				Enum: feed.MarketUpdateTypes,
			},
			"investor_types": {
				Type:  jsonschema.Array,
				Items: &jsonschema.Definition{Type: jsonschema.String, Enum: feed.InvestorTypes},
			},
		},
		Required:             []string{"stocks", "market_update", "investor_types"},
		AdditionalProperties: false,
	}
}
