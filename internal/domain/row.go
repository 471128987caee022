package domain

import "github.com/shopspring/decimal"

// DerivedRow is one computed line of the rate table.
type DerivedRow struct {
	Code            string          `json:"code"`
	Currency        string          `json:"currency"`
	Location        string          `json:"location"`
	Rate            decimal.Decimal `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	MarginedRate    decimal.Decimal `json:"marginedRate"`
	MarginedAmount  decimal.Decimal `json:"marginedAmount"`
	Decimals        int             `json:"decimals"`
}

// Cells renders the row as export-table strings: rates with RateDecimals places and
// amounts with the currency's own precision.
func (r DerivedRow) Cells() []string {
	return []string{
		r.Code,
		r.Currency,
		r.Location,
		FormatFixed(r.Rate, RateDecimals),
		FormatFixed(r.ConvertedAmount, r.Decimals),
		FormatFixed(r.MarginedRate, RateDecimals),
		FormatFixed(r.MarginedAmount, r.Decimals),
	}
}

// TableHeader is the header row shared by every rendering and export of the rate table.
var TableHeader = []string{
	"Currency Code",
	"Currency",
	"Location",
	"Rate",
	"Converted Amount",
	"Margined Rate",
	"Margined Amount",
}
