package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Trend is the period-over-period change in percent. Growth from nothing is
// reported as +100 so it stays distinguishable from no change at all.
func Trend(current decimal.Decimal, prior decimal.Decimal) float64 {
	if prior.IsPositive() {
		return percent(current.Sub(prior), prior)
	}
	if current.IsPositive() {
		return 100
	}
	return 0
}

func TrendUnits(current int, prior int) float64 {
	return Trend(decimal.NewFromInt(int64(current)), decimal.NewFromInt(int64(prior)))
}

// DiscountRate is discount as a share of the pre-discount amount.
func DiscountRate(discount decimal.Decimal, revenue decimal.Decimal) float64 {
	return percent(discount, revenue.Add(discount))
}

// AttachmentRate is the share of service transactions that also sold a
// product, rounded to a whole percent.
func AttachmentRate(serviceTx map[string]struct{}, productTx map[string]struct{}) (rate int, attached int) {
	if len(serviceTx) == 0 {
		return 0, 0
	}
	for id := range serviceTx {
		if _, ok := productTx[id]; ok {
			attached++
		}
	}
	rate = int(math.Round(float64(attached) / float64(len(serviceTx)) * 100))
	return rate, attached
}

func AverageTicket(revenue decimal.Decimal, units int) decimal.Decimal {
	if units <= 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(int64(units))).Round(2)
}

// ProductMargin is nil when there is no cost for the product or no revenue
// to measure it against.
func ProductMargin(revenue decimal.Decimal, units int, cost decimal.Decimal, hasCost bool) *float64 {
	if !hasCost || !revenue.IsPositive() {
		return nil
	}
	totalCost := cost.Mul(decimal.NewFromInt(int64(units)))
	margin := percent(revenue.Sub(totalCost), revenue)
	return &margin
}

// MarginSummary builds the report-wide margin block. It is nil when the
// catalog carries no cost data at all.
func MarginSummary(rows []domain.ProductRow, catalog *CatalogIndex) *domain.MarginData {
	if !catalog.CostTrackingEnabled() {
		return nil
	}

	data := &domain.MarginData{
		Revenue:      decimal.Zero,
		Cost:         decimal.Zero,
		ProductsSold: len(rows),
	}
	for _, row := range rows {
		cost, ok := catalog.Cost(row.Name)
		if !ok {
			continue
		}
		data.ProductsWithCost++
		data.Revenue = data.Revenue.Add(row.Revenue)
		data.Cost = data.Cost.Add(cost.Mul(decimal.NewFromInt(int64(row.UnitsSold))))
	}
	data.GrossProfit = data.Revenue.Sub(data.Cost)
	data.MarginPercent = percent(data.GrossProfit, data.Revenue)
	return data
}

// percent returns num/den*100 rounded to two places, or 0 for a zero den.
func percent(num decimal.Decimal, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return num.Div(den).Mul(hundred).Round(2).InexactFloat64()
}
