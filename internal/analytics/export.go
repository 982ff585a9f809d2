package analytics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

type Facet string

const (
	FacetProducts   Facet = "products"
	FacetBrands     Facet = "brands"
	FacetDeadStock  Facet = "deadstock"
	FacetStaff      Facet = "staff"
	FacetCategories Facet = "categories"
)

var ErrUnknownFacet = errors.New("unknown export facet")

func ParseFacet(raw string) (Facet, error) {
	switch facet := Facet(strings.ToLower(strings.TrimSpace(raw))); facet {
	case FacetProducts, FacetBrands, FacetDeadStock, FacetStaff, FacetCategories:
		return facet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFacet, raw)
}

func ExportFilename(facet Facet, now time.Time) string {
	return fmt.Sprintf("retail-%s-%s.csv", facet, now.Format(domain.DateLayout))
}

// ExportCSV renders one row collection of the report with a header line.
// Every field is quoted and embedded quotes are doubled.
func ExportCSV(report domain.RetailReport, facet Facet) ([]byte, error) {
	var rows [][]string
	switch facet {
	case FacetProducts:
		rows = append(rows, []string{"Product", "Category", "Brand", "Units Sold", "Revenue", "Discount", "Discount Rate", "Average Price", "Prior Revenue", "Trend", "Margin", "Share", "Last Sold"})
		for _, p := range report.Products {
			rows = append(rows, []string{p.Name, p.Category, p.Brand, strconv.Itoa(p.UnitsSold), money(p.Revenue), money(p.Discount), pct(p.DiscountRate), money(p.AveragePrice), money(p.PriorRevenue), pct(p.Trend), optionalPct(p.Margin), pct(p.SharePercent), p.LastSold})
		}
	case FacetBrands:
		rows = append(rows, []string{"Brand", "Revenue", "Units", "Products", "Share", "Margin"})
		for _, b := range report.Brands {
			rows = append(rows, []string{b.Brand, money(b.Revenue), strconv.Itoa(b.Units), strconv.Itoa(b.ProductCount), pct(b.SharePercent), optionalPct(b.Margin)})
		}
	case FacetDeadStock:
		rows = append(rows, []string{"Product", "Brand", "Category", "On Hand", "Retail Price", "Capital Tied Up", "Days Stale", "Last Sold"})
		for _, d := range report.DeadStock {
			rows = append(rows, []string{d.Name, d.Brand, d.Category, strconv.Itoa(d.QuantityOnHand), money(d.RetailPrice), money(d.CapitalTiedUp), strconv.Itoa(d.DaysStale), d.LastSold})
		}
	case FacetStaff:
		rows = append(rows, []string{"Staff", "Source Name", "Branch", "Revenue", "Units", "Average Ticket", "Attachment Rate", "Service Transactions", "Product Transactions"})
		for _, s := range report.Staff {
			rows = append(rows, []string{s.Name, s.SourceName, s.BranchName, money(s.Revenue), strconv.Itoa(s.Units), money(s.AverageTicket), strconv.Itoa(s.AttachmentRate), strconv.Itoa(s.ServiceTransactions), strconv.Itoa(s.ProductTransactions)})
		}
	case FacetCategories:
		rows = append(rows, []string{"Category", "Revenue", "Units", "Products", "Share"})
		for _, c := range report.Categories {
			rows = append(rows, []string{c.Category, money(c.Revenue), strconv.Itoa(c.Units), strconv.Itoa(c.ProductCount), pct(c.SharePercent)})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFacet, facet)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, field := range row {
			fields[i] = quote(field)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optionalPct(v *float64) string {
	if v == nil {
		return ""
	}
	return pct(*v)
}
