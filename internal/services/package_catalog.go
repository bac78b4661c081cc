package services

import (
	"fmt"
	"sort"

	"contractflow/pkg/utils"
)

// Package is one offering in the fixed catalog. Prices are whole currency
// units.
type Package struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Features []string `json:"features"`
}

func defaultPackages() []Package {
	return []Package{
		{
			Code:     "testing",
			Name:     "Testing",
			Price:    0,
			Features: []string{"End-to-end walkthrough", "No payment collected"},
		},
		{
			Code:     "starter",
			Name:     "Starter",
			Price:    150000,
			Features: []string{"One-page website", "WhatsApp order button", "Basic branding"},
		},
		{
			Code:     "growth",
			Name:     "Growth",
			Price:    290000,
			Features: []string{"Up to five pages", "Product catalog", "WhatsApp order button", "Custom branding"},
		},
		{
			Code:     "premium",
			Name:     "Premium",
			Price:    450000,
			Features: []string{"Unlimited pages", "Online payments", "Custom domain", "Priority support"},
		},
	}
}

type PackageCatalog struct {
	packages map[string]Package
}

// NewPackageCatalog builds the catalog, replacing default prices with the
// configured ones. Overrides must name an existing package.
func NewPackageCatalog(priceOverrides map[string]int64) (*PackageCatalog, error) {
	catalog := &PackageCatalog{packages: map[string]Package{}}
	for _, p := range defaultPackages() {
		catalog.packages[p.Code] = p
	}

	for code, price := range priceOverrides {
		p, ok := catalog.packages[code]
		if !ok {
			return nil, fmt.Errorf("%w: price override for %q", utils.ErrUnknownPackage, code)
		}
		if price < 0 {
			return nil, fmt.Errorf("package %s: negative price %d", code, price)
		}
		p.Price = price
		catalog.packages[code] = p
	}

	return catalog, nil
}

func (c *PackageCatalog) Lookup(code string) (Package, bool) {
	p, ok := c.packages[code]
	return p, ok
}

// List returns the packages ordered by price.
func (c *PackageCatalog) List() []Package {
	out := make([]Package, 0, len(c.packages))
	for _, p := range c.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price == out[j].Price {
			return out[i].Code < out[j].Code
		}
		return out[i].Price < out[j].Price
	})
	return out
}
