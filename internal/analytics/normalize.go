package analytics

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

var productTypes = map[string]struct{}{
	"product":        {},
	"products":       {},
	"retail":         {},
	"retail_product": {},
}

var serviceTypes = map[string]struct{}{
	"service":  {},
	"services": {},
}

// Classify decides the line type. Native point-of-sale lines are always
// retail products; legacy lines go by their item_type string.
func Classify(rec domain.SourceRecord) domain.ItemType {
	switch rec.Source {
	case domain.SourceNative:
		if rec.Native == nil {
			return domain.ItemTypeOther
		}
		return domain.ItemTypeProduct
	case domain.SourceLegacy:
		if rec.Legacy == nil {
			return domain.ItemTypeOther
		}
		itemType := strings.ToLower(strings.TrimSpace(rec.Legacy.ItemType))
		if _, ok := productTypes[itemType]; ok {
			return domain.ItemTypeProduct
		}
		if _, ok := serviceTypes[itemType]; ok {
			return domain.ItemTypeService
		}
	}
	return domain.ItemTypeOther
}

// Normalize maps a raw record to a LineItem. The second return is false when
// the record is neither a product nor a service line, when a native line's
// sale header did not resolve, or when the line falls outside window.
func Normalize(rec domain.SourceRecord, window domain.Period) (domain.LineItem, bool) {
	itemType := Classify(rec)
	if itemType == domain.ItemTypeOther {
		return domain.LineItem{}, false
	}

	var item domain.LineItem
	switch rec.Source {
	case domain.SourceLegacy:
		item = fromLegacy(*rec.Legacy)
	case domain.SourceNative:
		if rec.Header == nil || rec.Header.ID != rec.Native.SaleID {
			return domain.LineItem{}, false
		}
		item = fromNative(*rec.Native, *rec.Header)
	}
	item.Type = itemType

	if item.Name == "" || len(item.Date) != len(domain.DateLayout) {
		return domain.LineItem{}, false
	}
	if !window.Contains(item.Date) {
		return domain.LineItem{}, false
	}
	return item, true
}

func fromLegacy(raw domain.LegacySaleItem) domain.LineItem {
	item := domain.LineItem{
		Name:          strings.TrimSpace(raw.ItemName),
		Quantity:      raw.Quantity,
		Discount:      decimal.Zero,
		Total:         raw.TotalAmount,
		Date:          isoDate(raw.TransactionDate),
		TransactionID: raw.TransactionID,
		Source:        domain.SourceLegacy,
	}
	if raw.ItemCategory != nil {
		item.Category = strings.TrimSpace(*raw.ItemCategory)
	}
	if raw.UnitPrice != nil {
		price := *raw.UnitPrice
		item.UnitPrice = &price
	}
	if raw.Discount != nil {
		item.Discount = *raw.Discount
	}
	if raw.StaffID != nil {
		item.StaffID = strings.TrimSpace(*raw.StaffID)
	}
	return item
}

func fromNative(raw domain.NativeSaleItem, header domain.SaleHeader) domain.LineItem {
	price := raw.UnitPrice
	item := domain.LineItem{
		Name:          strings.TrimSpace(raw.ProductName),
		Quantity:      raw.Quantity,
		UnitPrice:     &price,
		Discount:      raw.Discount,
		Total:         raw.LineTotal,
		Date:          header.CreatedAt.UTC().Format(domain.DateLayout),
		TransactionID: "native:" + header.ID,
		Source:        domain.SourceNative,
	}
	if raw.Category != nil {
		item.Category = strings.TrimSpace(*raw.Category)
	}
	if header.StaffID != nil {
		item.StaffID = strings.TrimSpace(*header.StaffID)
	}
	return item
}

// isoDate keeps the calendar-day prefix of a date or timestamp string.
func isoDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(domain.DateLayout) {
		return ""
	}
	day := raw[:len(domain.DateLayout)]
	if _, err := time.Parse(domain.DateLayout, day); err != nil {
		return ""
	}
	return day
}
