package feed

import "slices"

// Closed vocabularies shared by the extraction prompts/schemas and the
// validation applied to extraction results.

const MarketUpdateOther = "Other"

var MarketUpdateTypes = []string{
	"Earnings Reports",
	"IPO Announcements",
	"Dividend Updates",
	"Economic Indicators",
	"Market News and Analysis",
	"Cryptocurrency Market News",
	"Analyst Ratings and Upgrades/Downgrades",
	"Regulatory Changes",
	"Mergers and Acquisitions",
	"Blockchain Technology Developments",
	"MEME Investing",
	MarketUpdateOther,
}

var InvestorTypes = []string{
	"Long-term Investor",
	"Swing Trader",
	"Day Trader",
	"Value Investor",
	"Growth Investor",
	"Income Investor",
	"Passive Investor",
	"Options Trader",
	"Cryptocurrency Trader/Investor",
}

const MaxInvestorTypes = 3

func IsMarketUpdateType(s string) bool {
	return slices.Contains(MarketUpdateTypes, s)
}

func IsInvestorType(s string) bool {
	return slices.Contains(InvestorTypes, s)
}
