package analytics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

type ReportInput struct {
	Period                domain.Period
	Current               *PeriodAggregate
	Prior                 *PeriodAggregate
	Catalog               *CatalogIndex
	Staff                 StaffDirectory
	NativeSourceAvailable bool
}

// EmptyReport is returned when the caller has not picked a date range yet.
// Collections are empty rather than nil so they encode as [].
func EmptyReport() domain.RetailReport {
	return domain.RetailReport{
		Summary: domain.ReportSummary{
			TotalRevenue:  decimal.Zero,
			TotalDiscount: decimal.Zero,
			AverageTicket: decimal.Zero,
			PriorRevenue:  decimal.Zero,
		},
		Products:   []domain.ProductRow{},
		RedFlags:   []domain.RedFlag{},
		Categories: []domain.CategoryRow{},
		Brands:     []domain.BrandRow{},
		Daily:      []domain.DailyPoint{},
		Staff:      []domain.StaffRow{},
		DeadStock:  []domain.DeadStockRow{},
	}
}

func BuildReport(in ReportInput) domain.RetailReport {
	current := in.Current
	if current == nil {
		current = newPeriodAggregate()
	}
	prior := in.Prior
	if prior == nil {
		prior = newPeriodAggregate()
	}
	catalog := in.Catalog
	if catalog == nil {
		catalog = NewCatalogIndex(nil)
	}

	priorPeriod := in.Period.Prior()
	totalRevenue := current.TotalRevenue()
	totalDiscount := current.TotalDiscount()
	totalUnits := current.TotalUnits()
	priorRevenue := prior.TotalRevenue()
	priorUnits := prior.TotalUnits()
	attachment, attached := AttachmentRate(current.ServiceTransactions, current.ProductTransactions)

	products := productRows(current, prior, catalog, totalRevenue)

	return domain.RetailReport{
		Period: domain.PeriodInfo{
			From:      in.Period.FromDate(),
			To:        in.Period.ToDate(),
			PriorFrom: priorPeriod.FromDate(),
			PriorTo:   priorPeriod.ToDate(),
			SpanDays:  in.Period.Days(),
		},
		Summary: domain.ReportSummary{
			TotalRevenue:         totalRevenue,
			TotalUnits:           totalUnits,
			TotalDiscount:        totalDiscount,
			DiscountRate:         DiscountRate(totalDiscount, totalRevenue),
			AverageTicket:        AverageTicket(totalRevenue, totalUnits),
			ProductCount:         len(products),
			PriorRevenue:         priorRevenue,
			RevenueTrend:         Trend(totalRevenue, priorRevenue),
			PriorUnits:           priorUnits,
			UnitsTrend:           TrendUnits(totalUnits, priorUnits),
			AttachmentRate:       attachment,
			ServiceTransactions:  len(current.ServiceTransactions),
			ProductTransactions:  len(current.ProductTransactions),
			AttachedTransactions: attached,
		},
		Products:              products,
		RedFlags:              DetectRedFlags(products, in.Period.Days()),
		Categories:            CategoryRollup(products, totalRevenue),
		Brands:                BrandRollup(products, catalog, totalRevenue),
		Daily:                 dailySeries(current, in.Period),
		Staff:                 ResolveStaff(current, in.Staff),
		Margin:                MarginSummary(products, catalog),
		DeadStock:             DetectDeadStock(catalog, current, prior, in.Period),
		NativeSourceAvailable: in.NativeSourceAvailable,
	}
}

func productRows(current *PeriodAggregate, prior *PeriodAggregate, catalog *CatalogIndex, totalRevenue decimal.Decimal) []domain.ProductRow {
	rows := make([]domain.ProductRow, 0, len(current.Products))
	for _, key := range current.ProductKeys() {
		product := current.Products[key]

		priorRevenue := decimal.Zero
		if previous, ok := prior.Products[key]; ok {
			priorRevenue = previous.Revenue
		}

		category := product.Category
		if entry, ok := catalog.Entry(key); ok && entry.Category != "" {
			category = entry.Category
		}
		if category == "" {
			category = uncategorized
		}
		brand, _ := catalog.Brand(key)
		cost, hasCost := catalog.Cost(key)

		rows = append(rows, domain.ProductRow{
			Name:         product.Name,
			Category:     category,
			Brand:        brand,
			UnitsSold:    product.Units,
			Revenue:      product.Revenue,
			Discount:     product.Discount,
			DiscountRate: DiscountRate(product.Discount, product.Revenue),
			AveragePrice: averagePrice(product),
			PriorRevenue: priorRevenue,
			Trend:        Trend(product.Revenue, priorRevenue),
			Margin:       ProductMargin(product.Revenue, product.Units, cost, hasCost),
			SharePercent: percent(product.Revenue, totalRevenue),
			LastSold:     product.LastSold,
		})
	}

	slices.SortFunc(rows, func(a, b domain.ProductRow) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(NormalizeName(a.Name), NormalizeName(b.Name))
	})
	return rows
}

// averagePrice is the mean observed unit price, falling back to revenue per
// unit when no line carried a unit price.
func averagePrice(product *ProductAggregate) decimal.Decimal {
	if len(product.UnitPrices) == 0 {
		return AverageTicket(product.Revenue, product.Units)
	}
	return decimal.Avg(product.UnitPrices[0], product.UnitPrices[1:]...).Round(2)
}

// dailySeries has one point per calendar day of the period, zero-filled.
func dailySeries(agg *PeriodAggregate, period domain.Period) []domain.DailyPoint {
	points := make([]domain.DailyPoint, 0, period.Days())
	for day := period.From; !day.After(period.To); day = day.AddDate(0, 0, 1) {
		date := day.Format(domain.DateLayout)
		point := domain.DailyPoint{Date: date, Revenue: decimal.Zero}
		if daily, ok := agg.Daily[date]; ok {
			point.Revenue = daily.Revenue
			point.Units = daily.Units
		}
		points = append(points, point)
	}
	return points
}
