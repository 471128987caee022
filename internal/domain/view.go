package domain

import "strings"

// SortKey selects the column rows are ordered by.
type SortKey string

const (
	SortByCode     SortKey = "code"
	SortByCurrency SortKey = "currency"
	SortByLocation SortKey = "location"
	SortByRate     SortKey = "rate"
)

// ParseSortKey maps user input to a SortKey, defaulting to SortByRate.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByCode:
		return SortByCode
	case SortByCurrency:
		return SortByCurrency
	case SortByLocation:
		return SortByLocation
	default:
		return SortByRate
	}
}

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps user input to a Direction, defaulting to Asc.
func ParseDirection(s string) Direction {
	if Direction(strings.ToLower(strings.TrimSpace(s))) == Desc {
		return Desc
	}
	return Asc
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Comparison is the rate filter mode.
type Comparison string

const (
	CompareNone        Comparison = "none"
	CompareGreaterThan Comparison = "gt"
	CompareLessThan    Comparison = "lt"
)

// ParseComparison maps user input ("gt", ">", "lt", "<") to a Comparison, defaulting to CompareNone.
func ParseComparison(s string) Comparison {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gt", ">":
		return CompareGreaterThan
	case "lt", "<":
		return CompareLessThan
	default:
		return CompareNone
	}
}

// ViewState is the user-controlled input to table derivation. Amount, Margin and Threshold
// hold raw user text and are parsed defensively at derivation time.
type ViewState struct {
	Base       string     `json:"base"`
	Amount     string     `json:"amount"`
	Margin     string     `json:"margin"`
	Sort       SortKey    `json:"sort"`
	Order      Direction  `json:"order"`
	Filter     string     `json:"filter"`
	Compare    Comparison `json:"compare"`
	Threshold  string     `json:"threshold"`
	Prioritize bool       `json:"prioritize"`
}

// DefaultViewState returns the initial view: 1 USD, no margin, sorted by rate ascending.
func DefaultViewState() ViewState {
	return ViewState{
		Base:    "USD",
		Amount:  "1",
		Margin:  "0",
		Sort:    SortByRate,
		Order:   Asc,
		Compare: CompareNone,
	}
}
