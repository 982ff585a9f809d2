package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

const (
	decliningWarningTrend = -20.0
	decliningDangerTrend  = -50.0
	discountWarningRate   = 15.0
	discountDangerRate    = 30.0
	slowMoverUnits        = 3
	slowMoverMinSpanDays  = 14
)

// DetectRedFlags evaluates every rule independently per product row, so a row
// may collect more than one flag. Flags follow the order of rows. Thresholds
// are checked on the exact amounts; the rounded row percentages are only
// reported as flag values.
func DetectRedFlags(rows []domain.ProductRow, spanDays int) []domain.RedFlag {
	flags := make([]domain.RedFlag, 0)
	for _, row := range rows {
		if row.PriorRevenue.IsPositive() && trendBelow(row.Revenue, row.PriorRevenue, decliningWarningTrend) {
			severity := domain.SeverityWarning
			if trendBelow(row.Revenue, row.PriorRevenue, decliningDangerTrend) {
				severity = domain.SeverityDanger
			}
			flags = append(flags, domain.RedFlag{
				Product:  row.Name,
				Type:     domain.FlagDeclining,
				Severity: severity,
				Value:    row.Trend,
				Message:  fmt.Sprintf("Revenue down %.1f%% vs prior period", -row.Trend),
			})
		}

		gross := row.Revenue.Add(row.Discount)
		if row.Discount.IsPositive() && row.Revenue.IsPositive() && shareAbove(row.Discount, gross, discountWarningRate) {
			severity := domain.SeverityWarning
			if shareAbove(row.Discount, gross, discountDangerRate) {
				severity = domain.SeverityDanger
			}
			flags = append(flags, domain.RedFlag{
				Product:  row.Name,
				Type:     domain.FlagHeavyDiscount,
				Severity: severity,
				Value:    row.DiscountRate,
				Message:  fmt.Sprintf("%.1f%% of list value given away as discount", row.DiscountRate),
			})
		}

		if row.UnitsSold < slowMoverUnits && spanDays >= slowMoverMinSpanDays {
			severity := domain.SeverityWarning
			if row.UnitsSold <= 1 {
				severity = domain.SeverityDanger
			}
			flags = append(flags, domain.RedFlag{
				Product:  row.Name,
				Type:     domain.FlagSlowMover,
				Severity: severity,
				Value:    float64(row.UnitsSold),
				Message:  fmt.Sprintf("Only %d sold in %d days", row.UnitsSold, spanDays),
			})
		}
	}
	return flags
}

// trendBelow reports whether the change from prior to current, in percent,
// is below threshold. prior must be positive.
func trendBelow(current decimal.Decimal, prior decimal.Decimal, threshold float64) bool {
	return current.Sub(prior).Mul(hundred).LessThan(prior.Mul(decimal.NewFromFloat(threshold)))
}

// shareAbove reports whether part is more than threshold percent of whole.
func shareAbove(part decimal.Decimal, whole decimal.Decimal, threshold float64) bool {
	return part.Mul(hundred).GreaterThan(whole.Mul(decimal.NewFromFloat(threshold)))
}
