package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

const (
	DowntownLocationID = "3f1c2a8e-6f0b-4c55-9d43-1c0e7d2b9a10"
	UptownLocationID   = "8b7d5c21-94e2-4f0a-a3b6-52d8e1f4c7a9"

	seedDays = 56
)

type seedService struct {
	name  string
	price int64
}

var (
	seedServices = []seedService{
		{"Haircut", 45},
		{"Color", 120},
		{"Blowout", 35},
	}
	seedSellers = []string{
		"Argan Repair Shampoo",
		"Argan Repair Conditioner",
		"Sea Salt Texture Spray",
		"Matte Clay Pomade",
		"Bond Builder Treatment",
	}
	seedLegacyStaff = []string{"zen-101", "zen-102", "zen-104"}
)

// NewSeeded returns a store with eight weeks of salon sales ending today.
func NewSeeded() *Store {
	return NewSeededAt(time.Now())
}

// NewSeededAt builds the same dataset as NewSeeded with the last sales day
// pinned to day, so the numbers are reproducible.
func NewSeededAt(day time.Time) *Store {
	return New(SeedDataset(day))
}

func SeedDataset(day time.Time) Dataset {
	ref := startOfDay(day)
	catalog := seedCatalog()
	prices := make(map[string]decimal.Decimal, len(catalog))
	for _, entry := range catalog {
		prices[entry.Name] = entry.RetailPrice
	}

	data := Dataset{
		Catalog:       catalog,
		NativeEnabled: true,
		StaffMappings: []domain.StaffMapping{
			{SourceStaffID: "zen-101", LinkedPersonID: strPtr("c2a4e0d6-1b3f-4e8a-9c7d-5f6a7b8c9d01"), SourceStaffName: "ANA M", BranchName: "Downtown"},
			{SourceStaffID: "zen-102", LinkedPersonID: strPtr("d3b5f1e7-2c4a-4f9b-8d6e-6a7b8c9d0e12"), SourceStaffName: "BO K", BranchName: "Uptown"},
			{SourceStaffID: "zen-103", SourceStaffName: "Front Desk", BranchName: "Uptown"},
		},
		Profiles: []domain.PersonProfile{
			{ID: "c2a4e0d6-1b3f-4e8a-9c7d-5f6a7b8c9d01", DisplayName: "Ana Morales", PhotoURL: "https://cdn.salonretail.local/staff/ana.png"},
		},
	}

	for i := 0; i < seedDays; i++ {
		date := ref.AddDate(0, 0, -i)
		for n := 0; n < 3; n++ {
			txID := fmt.Sprintf("zt-%02d-%d", i, n)
			staffID := seedLegacyStaff[(i+n)%len(seedLegacyStaff)]
			location := DowntownLocationID
			if n%2 == 1 {
				location = UptownLocationID
			}
			at := date.Add(time.Duration(10+2*n) * time.Hour).Format(time.RFC3339)

			svc := seedServices[(i+n)%len(seedServices)]
			data.LegacyItems = append(data.LegacyItems, domain.LegacySaleItem{
				ID:              fmt.Sprintf("li-%02d-%d-s", i, n),
				ItemName:        svc.name,
				ItemCategory:    strPtr("Services"),
				ItemType:        "Service",
				Quantity:        1,
				UnitPrice:       decPtr(decimal.NewFromInt(svc.price)),
				TotalAmount:     decimal.NewFromInt(svc.price),
				TransactionDate: at,
				TransactionID:   txID,
				StaffID:         strPtr(staffID),
				LocationID:      location,
			})

			if (i+n)%2 == 0 {
				name := seedSellers[(i*3+n)%len(seedSellers)]
				qty := 1 + i%2
				price := prices[name]
				discount := decimal.Zero
				if name == "Bond Builder Treatment" && i%4 == 0 {
					discount = decimal.NewFromInt(8)
				}
				data.LegacyItems = append(data.LegacyItems, domain.LegacySaleItem{
					ID:              fmt.Sprintf("li-%02d-%d-p", i, n),
					ItemName:        name,
					ItemType:        "retail",
					Quantity:        qty,
					UnitPrice:       decPtr(price),
					Discount:        decPtr(discount),
					TotalAmount:     price.Mul(decimal.NewFromInt(int64(qty))).Sub(discount),
					TransactionDate: at,
					TransactionID:   txID,
					StaffID:         strPtr(staffID),
					LocationID:      location,
				})
			}
		}

		if i >= 35 && i < 42 {
			data.LegacyItems = append(data.LegacyItems, domain.LegacySaleItem{
				ID:              fmt.Sprintf("li-%02d-k", i),
				ItemName:        "keratin mask",
				ItemType:        "Product",
				Quantity:        1,
				TotalAmount:     prices["Keratin Mask"],
				TransactionDate: date.Add(15 * time.Hour).Format(time.RFC3339),
				TransactionID:   fmt.Sprintf("zt-%02d-k", i),
				StaffID:         strPtr("zen-102"),
				LocationID:      UptownLocationID,
			})
		}
		if i%7 == 0 {
			data.LegacyItems = append(data.LegacyItems, domain.LegacySaleItem{
				ID:              fmt.Sprintf("li-%02d-m", i),
				ItemName:        "Gold Membership",
				ItemType:        "package",
				Quantity:        1,
				TotalAmount:     decimal.NewFromInt(99),
				TransactionDate: date.Add(9 * time.Hour).Format(time.RFC3339),
				TransactionID:   fmt.Sprintf("zt-%02d-m", i),
				LocationID:      DowntownLocationID,
			})
		}

		if i%3 == 0 {
			saleID := fmt.Sprintf("ps-%02d", i)
			createdAt := date.Add(16 * time.Hour)
			data.SaleHeaders = append(data.SaleHeaders, domain.SaleHeader{
				ID:         saleID,
				LocationID: UptownLocationID,
				StaffID:    strPtr("zen-103"),
				CreatedAt:  createdAt,
			})
			data.NativeItems = append(data.NativeItems, domain.NativeSaleItem{
				ID:          saleID + "-1",
				SaleID:      saleID,
				ProductName: "Wide Tooth Comb",
				Category:    strPtr("Tools"),
				Quantity:    2,
				UnitPrice:   prices["Wide Tooth Comb"],
				Discount:    decimal.Zero,
				LineTotal:   prices["Wide Tooth Comb"].Mul(decimal.NewFromInt(2)),
				CreatedAt:   createdAt,
			})
			if i%6 == 0 {
				data.NativeItems = append(data.NativeItems, domain.NativeSaleItem{
					ID:          saleID + "-2",
					SaleID:      saleID,
					ProductName: "ARGAN REPAIR SHAMPOO",
					Quantity:    1,
					UnitPrice:   prices["Argan Repair Shampoo"],
					Discount:    decimal.NewFromInt(4),
					LineTotal:   prices["Argan Repair Shampoo"].Sub(decimal.NewFromInt(4)),
					CreatedAt:   createdAt,
				})
			}
		}
	}
	return data
}

func seedCatalog() []domain.CatalogEntry {
	entry := func(id, name, brand, category string, retail int64, cost string, qty int) domain.CatalogEntry {
		e := domain.CatalogEntry{
			ID:             id,
			Name:           name,
			Brand:          brand,
			Category:       category,
			RetailPrice:    decimal.NewFromInt(retail),
			QuantityOnHand: qty,
		}
		if cost != "" {
			e.CostPrice = decPtr(decimal.RequireFromString(cost))
		}
		return e
	}
	return []domain.CatalogEntry{
		entry("prod-01", "Argan Repair Shampoo", "Luma", "Hair Care", 24, "9.50", 18),
		entry("prod-02", "Argan Repair Conditioner", "Luma", "Hair Care", 26, "10", 12),
		entry("prod-03", "Sea Salt Texture Spray", "Tidal", "Styling", 19, "", 9),
		entry("prod-04", "Matte Clay Pomade", "Tidal", "Styling", 22, "7", 15),
		entry("prod-05", "Bond Builder Treatment", "Bondi", "Treatment", 38, "16", 6),
		entry("prod-06", "Heat Guard Mist", "", "Styling", 17, "6", 11),
		entry("prod-07", "Keratin Mask", "Luma", "Treatment", 32, "12", 7),
		entry("prod-08", "Wide Tooth Comb", "", "Tools", 8, "2", 40),
	}
}

func strPtr(v string) *string {
	return &v
}

func decPtr(v decimal.Decimal) *decimal.Decimal {
	return &v
}
