package repositories

import (
	"strings"

	"akiba/internal/models"
)

// ProductFilter holds the optional report criteria. Nil fields contribute no
// clause; the resulting predicate is the conjunction of the set fields, so a
// zero-value filter matches every product.
//
// Bounds are inclusive on both ends. An inverted range (min > max) is still
// well-formed and simply matches nothing. Category is an exact
// case-insensitive match, while Supplier and ProductName are unanchored
// case-insensitive substring matches.
type ProductFilter struct {
	Category    *string
	MinStock    *int
	MaxStock    *int
	MinPrice    *float64
	MaxPrice    *float64
	StartDate   *models.Date
	EndDate     *models.Date
	Supplier    *string
	ProductName *string
}

// Matches evaluates the filter against a single product in memory.
func (f ProductFilter) Matches(p *models.Product) bool {
	if f.Category != nil && !strings.EqualFold(p.Category, *f.Category) {
		return false
	}
	if f.MinStock != nil && p.Stock < *f.MinStock {
		return false
	}
	if f.MaxStock != nil && p.Stock > *f.MaxStock {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	// A product that has never been restocked matches no date bound.
	if f.StartDate != nil && (p.LastRestockDate == nil || p.LastRestockDate.Before(f.StartDate.Time)) {
		return false
	}
	if f.EndDate != nil && (p.LastRestockDate == nil || p.LastRestockDate.After(f.EndDate.Time)) {
		return false
	}
	if f.Supplier != nil && (p.Supplier == nil || !containsFold(*p.Supplier, *f.Supplier)) {
		return false
	}
	if f.ProductName != nil && !containsFold(p.Name, *f.ProductName) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
