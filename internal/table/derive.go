package table

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fxping/ratehub/internal/domain"
)

// Catalog provides the static currency data derivation needs.
type Catalog interface {
	Lookup(code string) domain.CurrencyMeta
	Excluded(code string) bool
	Priority() []string
}

// Table is the derived rate table for one snapshot and view.
type Table struct {
	Base          string              `json:"base"`
	Amount        decimal.Decimal     `json:"amount"`
	Margin        decimal.Decimal     `json:"margin"`
	LastUpdateUTC string              `json:"lastUpdateUtc"`
	Rows          []domain.DerivedRow `json:"rows"`
}

// Header returns the export-table header row.
func (t Table) Header() []string {
	return append([]string(nil), domain.TableHeader...)
}

// Records returns the data rows as strings, in row order.
func (t Table) Records() [][]string {
	return lo.Map(t.Rows, func(r domain.DerivedRow, _ int) []string { return r.Cells() })
}

// Export returns the header row followed by the data rows. Every renderer and export format
// consumes this representation so they cannot drift apart.
func (t Table) Export() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header())
	return append(out, t.Records()...)
}

// Codes returns the row codes in order.
func (t Table) Codes() []string {
	return lo.Map(t.Rows, func(r domain.DerivedRow, _ int) string { return r.Code })
}

// Derive computes the rate table. It is pure: the same inputs always give the same table.
// A view base missing from the snapshot falls back to the snapshot's declared base.
func Derive(snap *domain.RateSnapshot, view domain.ViewState, cat Catalog) Table {
	t := Table{
		Base:   view.Base,
		Amount: domain.ParseAmount(view.Amount),
		Margin: domain.SafeParse(view.Margin),
	}
	if snap == nil || len(snap.Rates) == 0 {
		return t
	}

	t.Base = snap.ResolveBase(view.Base)
	t.LastUpdateUTC = snap.LastUpdateUTC
	baseRate := snap.Rate(t.Base)

	filter := strings.ToLower(strings.TrimSpace(view.Filter))
	codes := lo.Filter(snap.Codes(), func(code string, _ int) bool {
		return !cat.Excluded(code) && strings.Contains(strings.ToLower(code), filter)
	})

	cross := lo.SliceToMap(codes, func(code string) (string, decimal.Decimal) {
		return code, domain.CrossRate(snap.Rate(code), baseRate)
	})

	if threshold, ok := domain.ParseThreshold(view.Threshold); ok {
		switch view.Compare {
		case domain.CompareGreaterThan:
			codes = lo.Filter(codes, func(code string, _ int) bool { return cross[code].GreaterThan(threshold) })
		case domain.CompareLessThan:
			codes = lo.Filter(codes, func(code string, _ int) bool { return cross[code].LessThan(threshold) })
		}
	}

	// Map iteration order is random; start from code order so ties are reproducible.
	slices.Sort(codes)
	slices.SortStableFunc(codes, comparator(view, cross, cat))

	if view.Prioritize {
		codes = prioritize(codes, cat.Priority())
	}

	t.Rows = lo.Map(codes, func(code string, _ int) domain.DerivedRow {
		meta := cat.Lookup(code)
		rate := cross[code]
		converted := rate.Mul(t.Amount)
		return domain.DerivedRow{
			Code:            code,
			Currency:        meta.Name,
			Location:        meta.Location,
			Rate:            rate,
			ConvertedAmount: converted,
			MarginedRate:    domain.ApplyMargin(rate, t.Margin),
			MarginedAmount:  domain.ApplyMargin(converted, t.Margin),
			Decimals:        meta.Decimals(),
		}
	})

	return t
}

func comparator(view domain.ViewState, cross map[string]decimal.Decimal, cat Catalog) func(a, b string) int {
	var cmp func(a, b string) int

	switch view.Sort {
	case domain.SortByCode:
		cmp = strings.Compare
	case domain.SortByCurrency, domain.SortByLocation:
		coll := collate.New(language.English)
		field := func(code string) string { return cat.Lookup(code).Name }
		if view.Sort == domain.SortByLocation {
			field = func(code string) string { return cat.Lookup(code).Location }
		}
		cmp = func(a, b string) int { return coll.CompareString(field(a), field(b)) }
	default:
		cmp = func(a, b string) int { return cross[a].Cmp(cross[b]) }
	}

	if view.Order == domain.Desc {
		return func(a, b string) int { return -cmp(a, b) }
	}
	return cmp
}

// prioritize moves the codes present in priority to the front, in priority order.
func prioritize(codes, priority []string) []string {
	present := lo.SliceToMap(codes, func(c string) (string, bool) { return c, true })
	front := lo.Filter(priority, func(c string, _ int) bool { return present[c] })
	inFront := lo.SliceToMap(front, func(c string) (string, bool) { return c, true })
	rest := lo.Filter(codes, func(c string, _ int) bool { return !inFront[c] })
	return append(front, rest...)
}
