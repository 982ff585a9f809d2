package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

// DetectDeadStock lists catalog entries with stock on hand that did not sell
// in the current period, most capital tied up first.
func DetectDeadStock(catalog *CatalogIndex, current *PeriodAggregate, prior *PeriodAggregate, period domain.Period) []domain.DeadStockRow {
	rows := make([]domain.DeadStockRow, 0)
	priorEnd := period.Prior().ToDate()
	currentEnd := period.ToDate()

	for _, key := range catalog.Keys() {
		if _, sold := current.Products[key]; sold {
			continue
		}
		entry, _ := catalog.Entry(key)
		if entry.QuantityOnHand <= 0 {
			continue
		}

		row := domain.DeadStockRow{
			Name:           entry.Name,
			Brand:          strings.TrimSpace(entry.Brand),
			Category:       strings.TrimSpace(entry.Category),
			QuantityOnHand: entry.QuantityOnHand,
			RetailPrice:    entry.RetailPrice,
			CapitalTiedUp:  entry.RetailPrice.Mul(decimal.NewFromInt(int64(entry.QuantityOnHand))),
			DaysStale:      period.Days(),
		}
		// A prior-period sale dates the item to the prior end, not the sale day.
		if _, ok := prior.Products[key]; ok {
			row.SoldInPrior = true
			row.LastSold = priorEnd
			row.DaysStale = DaysStale(priorEnd, currentEnd)
		}
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b domain.DeadStockRow) int {
		if c := b.CapitalTiedUp.Cmp(a.CapitalTiedUp); c != 0 {
			return c
		}
		return cmp.Compare(NormalizeName(a.Name), NormalizeName(b.Name))
	})
	return rows
}

func DaysStale(lastSold string, asOf string) int {
	days := domain.DaysBetween(lastSold, asOf)
	if days < 0 {
		return 0
	}
	return days
}
