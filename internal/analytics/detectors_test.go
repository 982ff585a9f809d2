package analytics

import (
	"testing"

	"salonretail/backend/internal/domain"
)

func TestDetectRedFlagsThresholds(t *testing.T) {
	declining := domain.ProductRow{Name: "Gel", UnitsSold: 10, Revenue: dec("75"), PriorRevenue: dec("100"), Trend: -25}
	flags := DetectRedFlags([]domain.ProductRow{declining}, 30)
	if len(flags) != 1 {
		t.Fatalf("expected exactly one flag, got %+v", flags)
	}
	if flags[0].Type != domain.FlagDeclining || flags[0].Severity != domain.SeverityWarning {
		t.Fatalf("expected declining warning, got %+v", flags[0])
	}

	collapsed := domain.ProductRow{Name: "Wax", UnitsSold: 10, Revenue: dec("40"), PriorRevenue: dec("100"), Trend: -60}
	flags = DetectRedFlags([]domain.ProductRow{collapsed}, 7)
	if len(flags) != 1 || flags[0].Type != domain.FlagDeclining || flags[0].Severity != domain.SeverityDanger {
		t.Fatalf("expected declining danger, got %+v", flags)
	}

	slow := domain.ProductRow{Name: "Comb", UnitsSold: 1, Revenue: dec("10"), Trend: 100}
	flags = DetectRedFlags([]domain.ProductRow{slow}, 30)
	if len(flags) != 1 || flags[0].Type != domain.FlagSlowMover || flags[0].Severity != domain.SeverityDanger {
		t.Fatalf("expected slow mover danger, got %+v", flags)
	}
}

func TestDetectRedFlagsComparesUnroundedValues(t *testing.T) {
	slipping := domain.ProductRow{
		Name:         "Gel",
		UnitsSold:    10,
		Revenue:      dec("79996"),
		PriorRevenue: dec("100000"),
		Trend:        Trend(dec("79996"), dec("100000")),
	}
	if slipping.Trend != -20 {
		t.Fatalf("expected trend to round to -20, got %v", slipping.Trend)
	}
	flags := DetectRedFlags([]domain.ProductRow{slipping}, 7)
	if len(flags) != 1 || flags[0].Type != domain.FlagDeclining || flags[0].Value != -20 {
		t.Fatalf("expected declining flag for a -20.004%% trend, got %+v", flags)
	}

	flat := domain.ProductRow{Name: "Wax", UnitsSold: 10, Revenue: dec("80"), PriorRevenue: dec("100"), Trend: -20}
	if flags := DetectRedFlags([]domain.ProductRow{flat}, 7); len(flags) != 0 {
		t.Fatalf("expected no flag at exactly -20%%, got %+v", flags)
	}

	discounted := domain.ProductRow{
		Name:         "Mist",
		UnitsSold:    10,
		Revenue:      dec("84.9997"),
		Discount:     dec("15.0003"),
		DiscountRate: DiscountRate(dec("15.0003"), dec("84.9997")),
	}
	if discounted.DiscountRate != 15 {
		t.Fatalf("expected discount rate to round to 15, got %v", discounted.DiscountRate)
	}
	flags = DetectRedFlags([]domain.ProductRow{discounted}, 7)
	if len(flags) != 1 || flags[0].Type != domain.FlagHeavyDiscount {
		t.Fatalf("expected heavy discount flag just above 15%%, got %+v", flags)
	}

	even := domain.ProductRow{Name: "Spray", UnitsSold: 10, Revenue: dec("85"), Discount: dec("15"), DiscountRate: 15}
	if flags := DetectRedFlags([]domain.ProductRow{even}, 7); len(flags) != 0 {
		t.Fatalf("expected no flag at exactly 15%%, got %+v", flags)
	}
}

func TestDetectRedFlagsSlowMoverNeedsLongSpan(t *testing.T) {
	row := domain.ProductRow{Name: "Comb", UnitsSold: 2, Revenue: dec("20")}
	if flags := DetectRedFlags([]domain.ProductRow{row}, 13); len(flags) != 0 {
		t.Fatalf("expected no flags on a short span, got %+v", flags)
	}
	flags := DetectRedFlags([]domain.ProductRow{row}, 14)
	if len(flags) != 1 || flags[0].Severity != domain.SeverityWarning {
		t.Fatalf("expected slow mover warning at 14 days, got %+v", flags)
	}
}

func TestDetectRedFlagsCombinesRules(t *testing.T) {
	row := domain.ProductRow{
		Name:         "Serum",
		UnitsSold:    1,
		Revenue:      dec("60"),
		Discount:     dec("40"),
		DiscountRate: DiscountRate(dec("40"), dec("60")),
		PriorRevenue: dec("200"),
		Trend:        Trend(dec("60"), dec("200")),
	}
	flags := DetectRedFlags([]domain.ProductRow{row}, 30)
	if len(flags) != 3 {
		t.Fatalf("expected three independent flags, got %+v", flags)
	}
	want := []domain.FlagType{domain.FlagDeclining, domain.FlagHeavyDiscount, domain.FlagSlowMover}
	for i, flag := range flags {
		if flag.Type != want[i] || flag.Severity != domain.SeverityDanger {
			t.Fatalf("flag %d: expected %s danger, got %+v", i, want[i], flag)
		}
	}

	mild := domain.ProductRow{Name: "Mist", UnitsSold: 5, Revenue: dec("80"), Discount: dec("20"), DiscountRate: 20}
	flags = DetectRedFlags([]domain.ProductRow{mild}, 7)
	if len(flags) != 1 || flags[0].Type != domain.FlagHeavyDiscount || flags[0].Severity != domain.SeverityWarning {
		t.Fatalf("expected heavy discount warning, got %+v", flags)
	}
}

func TestDetectDeadStockOrdersByCapital(t *testing.T) {
	period := mustPeriod(t, "2026-03-08", "2026-03-14")
	catalog := NewCatalogIndex([]domain.CatalogEntry{
		{Name: "A", RetailPrice: dec("50"), QuantityOnHand: 10},
		{Name: "B", RetailPrice: dec("90"), QuantityOnHand: 10},
		{Name: "Empty Shelf", RetailPrice: dec("500"), QuantityOnHand: 0},
		{Name: "Seller", RetailPrice: dec("20"), QuantityOnHand: 3},
	})
	current := Aggregate(normalizeAll(t, []domain.SourceRecord{
		legacyLine("seller", "product", 1, "20", "2026-03-09", "tx-1", ""),
	}, period))

	rows := DetectDeadStock(catalog, current, Aggregate(nil), period)
	if len(rows) != 2 {
		t.Fatalf("expected 2 dead stock rows, got %+v", rows)
	}
	if rows[0].Name != "B" || rows[1].Name != "A" {
		t.Fatalf("expected B before A, got %s then %s", rows[0].Name, rows[1].Name)
	}
	if !rows[0].CapitalTiedUp.Equal(dec("900")) || rows[0].DaysStale != 7 || rows[0].SoldInPrior {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestDetectDeadStockDatesPriorSalesToPriorEnd(t *testing.T) {
	period := mustPeriod(t, "2026-03-08", "2026-03-14")
	catalog := NewCatalogIndex([]domain.CatalogEntry{
		{Name: "Mask", RetailPrice: dec("25"), QuantityOnHand: 4},
	})
	prior := Aggregate(normalizeAll(t, []domain.SourceRecord{
		legacyLine("Mask", "product", 1, "25", "2026-03-04", "tx-1", ""),
	}, period.Prior()))

	rows := DetectDeadStock(catalog, Aggregate(nil), prior, period)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %+v", rows)
	}
	if !rows[0].SoldInPrior || rows[0].LastSold != "2026-03-07" || rows[0].DaysStale != 7 {
		t.Fatalf("unexpected staleness: %+v", rows[0])
	}
}

func TestResolveStaffFallsBackToSourceName(t *testing.T) {
	period := mustPeriod(t, "2026-03-01", "2026-03-07")
	agg := Aggregate(normalizeAll(t, []domain.SourceRecord{
		legacyLine("Gel", "product", 1, "30", "2026-03-02", "tx-1", "src-1"),
		legacyLine("Cut", "service", 1, "50", "2026-03-02", "tx-1", "src-1"),
		legacyLine("Wax", "product", 2, "50", "2026-03-03", "tx-2", "src-2"),
		legacyLine("Spray", "product", 1, "5", "2026-03-03", "tx-3", "src-3"),
		legacyLine("Color", "service", 1, "90", "2026-03-04", "tx-4", "src-4"),
	}, period))

	dir := BuildStaffDirectory(
		[]domain.StaffMapping{
			{SourceStaffID: "src-1", LinkedPersonID: strPtr("person-1"), SourceStaffName: "ANA M", BranchName: "Downtown"},
			{SourceStaffID: "src-2", LinkedPersonID: strPtr("person-missing"), SourceStaffName: "Bo"},
			{SourceStaffID: "src-4", SourceStaffName: "Cy"},
		},
		[]domain.PersonProfile{{ID: "person-1", DisplayName: "Ana Morales", PhotoURL: "https://cdn.example/ana.png"}},
	)

	rows := ResolveStaff(agg, dir)
	if len(rows) != 3 {
		t.Fatalf("expected service-only staff excluded, got %+v", rows)
	}
	if rows[0].StaffID != "src-2" || rows[0].Name != "Bo" || rows[0].Linked {
		t.Fatalf("expected unlinked src-2 first by revenue, got %+v", rows[0])
	}
	if rows[1].Name != "Ana Morales" || !rows[1].Linked || rows[1].SourceName != "ANA M" || rows[1].AttachmentRate != 100 {
		t.Fatalf("unexpected linked row: %+v", rows[1])
	}
	if rows[2].Name != "src-3" {
		t.Fatalf("expected unmapped staff shown by id, got %+v", rows[2])
	}
}
