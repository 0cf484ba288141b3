package domain

import (
	"sort"
	"strings"
)

// SectorIndustryValidator checks sector names and the industry groups that belong to them.
type SectorIndustryValidator interface {
	IsValidSector(sector string) bool
	IsValidIndustryGroup(sector, industryGroup string) bool
	IndustryGroups(sector string) []string
}

// SectorIndustryCatalog is a static, case-insensitive lookup of sectors and their industry groups.
type SectorIndustryCatalog struct {
	groups map[string][]string
	names  map[string]string
}

// NewSectorIndustryCatalog builds the catalog from the GICS sector / industry group tree.
func NewSectorIndustryCatalog() *SectorIndustryCatalog {
	return NewSectorIndustryCatalogFrom(map[string][]string{
		"Energy":    {"Energy"},
		"Materials": {"Materials"},
		"Industrials": {
			"Capital Goods",
			"Commercial & Professional Services",
			"Transportation",
		},
		"Consumer Discretionary": {
			"Automobiles & Components",
			"Consumer Durables & Apparel",
			"Consumer Services",
			"Consumer Discretionary Distribution & Retail",
		},
		"Consumer Staples": {
			"Consumer Staples Distribution & Retail",
			"Food, Beverage & Tobacco",
			"Household & Personal Products",
		},
		"Health Care": {
			"Health Care Equipment & Services",
			"Pharmaceuticals, Biotechnology & Life Sciences",
		},
		"Financials": {
			"Banks",
			"Financial Services",
			"Insurance",
		},
		"Information Technology": {
			"Software & Services",
			"Technology Hardware & Equipment",
			"Semiconductors & Semiconductor Equipment",
		},
		"Communication Services": {
			"Telecommunication Services",
			"Media & Entertainment",
		},
		"Utilities":   {"Utilities"},
		"Real Estate": {"Equity Real Estate Investment Trusts (REITs)", "Real Estate Management & Development"},
	})
}

// NewSectorIndustryCatalogFrom builds a catalog from an explicit sector -> industry groups map.
func NewSectorIndustryCatalogFrom(tree map[string][]string) *SectorIndustryCatalog {
	c := &SectorIndustryCatalog{
		groups: make(map[string][]string, len(tree)),
		names:  make(map[string]string, len(tree)),
	}
	for sector, groups := range tree {
		key := strings.ToLower(sector)
		c.names[key] = sector
		sorted := append([]string(nil), groups...)
		sort.Strings(sorted)
		c.groups[key] = sorted
	}
	return c
}

func (c *SectorIndustryCatalog) IsValidSector(sector string) bool {
	_, ok := c.groups[strings.ToLower(strings.TrimSpace(sector))]
	return ok
}

func (c *SectorIndustryCatalog) IsValidIndustryGroup(sector, industryGroup string) bool {
	for _, g := range c.IndustryGroups(sector) {
		if strings.EqualFold(g, strings.TrimSpace(industryGroup)) {
			return true
		}
	}
	return false
}

func (c *SectorIndustryCatalog) IndustryGroups(sector string) []string {
	return c.groups[strings.ToLower(strings.TrimSpace(sector))]
}

// Sectors lists the catalog's sector names in alphabetical order.
func (c *SectorIndustryCatalog) Sectors() []string {
	out := make([]string, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
