package analytics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

const uncategorized = "Uncategorized"

type rollup struct {
	revenue    decimal.Decimal
	units      int
	products   int
	costed     decimal.Decimal
	cost       decimal.Decimal
	costedSeen bool
}

// CategoryRollup groups product rows by their resolved category. Shares are
// taken against grandTotal, the period's product revenue.
func CategoryRollup(rows []domain.ProductRow, grandTotal decimal.Decimal) []domain.CategoryRow {
	groups := make(map[string]*rollup)
	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = uncategorized
		}
		group := groups[category]
		if group == nil {
			group = &rollup{}
			groups[category] = group
		}
		group.revenue = group.revenue.Add(row.Revenue)
		group.units += row.UnitsSold
		group.products++
	}

	out := make([]domain.CategoryRow, 0, len(groups))
	for category, group := range groups {
		out = append(out, domain.CategoryRow{
			Category:     category,
			Revenue:      group.revenue,
			Units:        group.units,
			ProductCount: group.products,
			SharePercent: percent(group.revenue, grandTotal),
		})
	}
	slices.SortFunc(out, func(a, b domain.CategoryRow) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// BrandRollup groups product rows by catalog brand. Products without a
// catalog brand are left out of the rollup.
func BrandRollup(rows []domain.ProductRow, catalog *CatalogIndex, grandTotal decimal.Decimal) []domain.BrandRow {
	groups := make(map[string]*rollup)
	for _, row := range rows {
		brand, ok := catalog.Brand(row.Name)
		if !ok {
			continue
		}
		group := groups[brand]
		if group == nil {
			group = &rollup{}
			groups[brand] = group
		}
		group.revenue = group.revenue.Add(row.Revenue)
		group.units += row.UnitsSold
		group.products++
		if cost, ok := catalog.Cost(row.Name); ok {
			group.costedSeen = true
			group.costed = group.costed.Add(row.Revenue)
			group.cost = group.cost.Add(cost.Mul(decimal.NewFromInt(int64(row.UnitsSold))))
		}
	}

	out := make([]domain.BrandRow, 0, len(groups))
	for brand, group := range groups {
		row := domain.BrandRow{
			Brand:        brand,
			Revenue:      group.revenue,
			Units:        group.units,
			ProductCount: group.products,
			SharePercent: percent(group.revenue, grandTotal),
		}
		if group.costedSeen && group.costed.IsPositive() {
			margin := percent(group.costed.Sub(group.cost), group.costed)
			row.Margin = &margin
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b domain.BrandRow) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.Brand, b.Brand)
	})
	return out
}
