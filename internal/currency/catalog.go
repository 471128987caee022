package currency

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/fxping/ratehub/internal/domain"
)

//go:embed currencies.yaml
var defaultCatalogYAML []byte

// Catalog is the static CurrencyMeta table plus the configurable code lists.
// It is loaded once at startup and never mutated afterwards.
type Catalog struct {
	byCode   map[string]domain.CurrencyMeta
	excluded map[string]bool
	priority []string
}

type catalogFile struct {
	Excluded   []string              `yaml:"excluded"`
	Priority   []string              `yaml:"priority"`
	Currencies []domain.CurrencyMeta `yaml:"currencies"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded currency catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading currency catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing currency catalog: %w", err)
	}

	for i, m := range f.Currencies {
		code := NormalizeCode(m.Code)
		if code == "" {
			return nil, fmt.Errorf("currency entry %d has no code", i)
		}
		f.Currencies[i].Code = code
	}

	return New(f.Currencies, f.Excluded, f.Priority), nil
}

// New builds a catalog from in-memory data. Later entries win on duplicate codes.
func New(metas []domain.CurrencyMeta, excluded, priority []string) *Catalog {
	return &Catalog{
		byCode:   lo.KeyBy(metas, func(m domain.CurrencyMeta) string { return m.Code }),
		excluded: lo.SliceToMap(NormalizeCodes(excluded), func(c string) (string, bool) { return c, true }),
		priority: NormalizeCodes(priority),
	}
}

// WithLists returns a copy of the catalog with the exclusion and/or priority lists replaced.
// A nil list keeps the current one.
func (c *Catalog) WithLists(excluded, priority []string) *Catalog {
	out := &Catalog{byCode: c.byCode, excluded: c.excluded, priority: c.priority}
	if excluded != nil {
		out.excluded = lo.SliceToMap(NormalizeCodes(excluded), func(code string) (string, bool) { return code, true })
	}
	if priority != nil {
		out.priority = NormalizeCodes(priority)
	}
	return out
}

// Lookup returns metadata for code. Unknown codes yield a bare entry with the code set,
// empty name/location and default precision.
func (c *Catalog) Lookup(code string) domain.CurrencyMeta {
	if m, ok := c.byCode[code]; ok {
		return m
	}
	return domain.CurrencyMeta{Code: code}
}

// Excluded reports whether code is always removed from derived tables.
func (c *Catalog) Excluded(code string) bool {
	return c.excluded[code]
}

// ExcludedCodes returns the exclusion list in sorted order.
func (c *Catalog) ExcludedCodes() []string {
	codes := lo.Keys(c.excluded)
	sort.Strings(codes)
	return codes
}

// Priority returns the priority display order.
func (c *Catalog) Priority() []string {
	return append([]string(nil), c.priority...)
}

// All returns every catalog entry sorted by code.
func (c *Catalog) All() []domain.CurrencyMeta {
	codes := lo.Keys(c.byCode)
	sort.Strings(codes)
	return lo.Map(codes, func(code string, _ int) domain.CurrencyMeta { return c.byCode[code] })
}

// NormalizeCode trims and uppercases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeCodes normalizes a list of codes, dropping blanks and duplicates.
func NormalizeCodes(codes []string) []string {
	normalized := lo.Map(codes, func(c string, _ int) string { return NormalizeCode(c) })
	return lo.Uniq(lo.Compact(normalized))
}

// SplitList parses a comma-separated list of codes. An empty string yields nil so that
// callers can tell "not configured" from "configured empty" ("-").
func SplitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if s == "-" {
		return []string{}
	}
	return NormalizeCodes(strings.Split(s, ","))
}
