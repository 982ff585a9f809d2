package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

type ProductAggregate struct {
	Name         string
	Category     string
	Units        int
	Revenue      decimal.Decimal
	Discount     decimal.Decimal
	UnitPrices   []decimal.Decimal
	DailyRevenue map[string]decimal.Decimal
	LastSold     string
}

type DailyAggregate struct {
	Revenue decimal.Decimal
	Units   int
}

type StaffAggregate struct {
	Revenue             decimal.Decimal
	Units               int
	ServiceTransactions map[string]struct{}
	ProductTransactions map[string]struct{}
}

// PeriodAggregate holds every accumulator for one reporting window. Products
// are keyed by NormalizeName, Daily by ISO date and Staff by source staff id.
type PeriodAggregate struct {
	Products            map[string]*ProductAggregate
	Daily               map[string]*DailyAggregate
	Staff               map[string]*StaffAggregate
	ServiceTransactions map[string]struct{}
	ProductTransactions map[string]struct{}
}

func newPeriodAggregate() *PeriodAggregate {
	return &PeriodAggregate{
		Products:            make(map[string]*ProductAggregate),
		Daily:               make(map[string]*DailyAggregate),
		Staff:               make(map[string]*StaffAggregate),
		ServiceTransactions: make(map[string]struct{}),
		ProductTransactions: make(map[string]struct{}),
	}
}

// Aggregate folds line items in one pass. The daily series counts every
// classified line. Product and staff totals count product lines only; service
// lines there only mark their transaction for attachment rate.
func Aggregate(items []domain.LineItem) *PeriodAggregate {
	agg := newPeriodAggregate()

	for _, item := range items {
		isProduct := item.Type == domain.ItemTypeProduct
		isService := item.Type == domain.ItemTypeService

		switch {
		case isService:
			agg.ServiceTransactions[item.TransactionID] = struct{}{}
		case isProduct:
			agg.ProductTransactions[item.TransactionID] = struct{}{}
		default:
			continue
		}

		day := agg.Daily[item.Date]
		if day == nil {
			day = &DailyAggregate{}
			agg.Daily[item.Date] = day
		}
		day.Revenue = day.Revenue.Add(item.Total)
		day.Units += item.Quantity

		if item.StaffID != "" {
			staff := agg.Staff[item.StaffID]
			if staff == nil {
				staff = &StaffAggregate{
					ServiceTransactions: make(map[string]struct{}),
					ProductTransactions: make(map[string]struct{}),
				}
				agg.Staff[item.StaffID] = staff
			}
			if isService {
				staff.ServiceTransactions[item.TransactionID] = struct{}{}
			} else {
				staff.ProductTransactions[item.TransactionID] = struct{}{}
				staff.Revenue = staff.Revenue.Add(item.Total)
				staff.Units += item.Quantity
			}
		}

		if !isProduct {
			continue
		}

		key := NormalizeName(item.Name)
		product := agg.Products[key]
		if product == nil {
			product = &ProductAggregate{
				Name:         item.Name,
				DailyRevenue: make(map[string]decimal.Decimal),
			}
			agg.Products[key] = product
		}
		if product.Category == "" {
			product.Category = item.Category
		}
		product.Units += item.Quantity
		product.Revenue = product.Revenue.Add(item.Total)
		product.Discount = product.Discount.Add(item.Discount)
		if item.UnitPrice != nil {
			product.UnitPrices = append(product.UnitPrices, *item.UnitPrice)
		}
		product.DailyRevenue[item.Date] = product.DailyRevenue[item.Date].Add(item.Total)
		if item.Date > product.LastSold {
			product.LastSold = item.Date
		}
	}

	return agg
}

func (a *PeriodAggregate) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, key := range a.ProductKeys() {
		total = total.Add(a.Products[key].Revenue)
	}
	return total
}

func (a *PeriodAggregate) TotalDiscount() decimal.Decimal {
	total := decimal.Zero
	for _, key := range a.ProductKeys() {
		total = total.Add(a.Products[key].Discount)
	}
	return total
}

func (a *PeriodAggregate) TotalUnits() int {
	units := 0
	for _, product := range a.Products {
		units += product.Units
	}
	return units
}

// ProductKeys returns product keys in ascending order so sums are computed
// in the same order on every run.
func (a *PeriodAggregate) ProductKeys() []string {
	keys := make([]string, 0, len(a.Products))
	for key := range a.Products {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// StaffIDs returns every staff id seen in the period, sorted.
func (a *PeriodAggregate) StaffIDs() []string {
	ids := make([]string, 0, len(a.Staff))
	for id := range a.Staff {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
