package domain

// CurrencyMeta is static reference data for a currency code.
type CurrencyMeta struct {
	Code       string `json:"code" yaml:"code"`
	Name       string `json:"name" yaml:"name"`
	Location   string `json:"location" yaml:"location"`
	Numeric    string `json:"numeric,omitempty" yaml:"numeric"`
	MinorUnits *int   `json:"minorUnits,omitempty" yaml:"minorUnits"`
}

// Decimals returns the display precision for amounts in this currency.
// Only 0- and 3-decimal currencies deviate from the default of 2.
func (m CurrencyMeta) Decimals() int {
	if m.MinorUnits == nil {
		return DefaultDecimals
	}
	switch *m.MinorUnits {
	case 0:
		return 0
	case 3:
		return 3
	default:
		return DefaultDecimals
	}
}
