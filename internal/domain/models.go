package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
	ItemTypeOther   ItemType = "other"
)

type Source string

const (
	SourceLegacy Source = "legacy"
	SourceNative Source = "native"
)

// LegacySaleItem is one row of the POS-integration transaction feed.
type LegacySaleItem struct {
	ID              string           `json:"id"`
	ItemName        string           `json:"item_name"`
	ItemCategory    *string          `json:"item_category,omitempty"`
	ItemType        string           `json:"item_type"`
	Quantity        int              `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	TransactionDate string           `json:"transaction_date"`
	TransactionID   string           `json:"transaction_id"`
	StaffID         *string          `json:"staff_id,omitempty"`
	LocationID      string           `json:"location_id"`
}

// NativeSaleItem is one line of the in-house point-of-sale. Date, staff and
// location live on the SaleHeader referenced by SaleID.
type NativeSaleItem struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	ProductName string          `json:"product_name"`
	Category    *string         `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

type SaleHeader struct {
	ID         string    `json:"id"`
	LocationID string    `json:"location_id"`
	StaffID    *string   `json:"staff_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SourceRecord carries exactly one raw record variant, selected by Source.
// Header is only meaningful for native records.
type SourceRecord struct {
	Source Source
	Legacy *LegacySaleItem
	Native *NativeSaleItem
	Header *SaleHeader
}

func LegacyRecord(item LegacySaleItem) SourceRecord {
	return SourceRecord{Source: SourceLegacy, Legacy: &item}
}

func NativeRecord(item NativeSaleItem, header *SaleHeader) SourceRecord {
	return SourceRecord{Source: SourceNative, Native: &item, Header: header}
}

// LineItem is the source-independent representation of one sale line.
type LineItem struct {
	Name          string           `json:"name"`
	Category      string           `json:"category,omitempty"`
	Type          ItemType         `json:"type"`
	Quantity      int              `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	Discount      decimal.Decimal  `json:"discount"`
	Total         decimal.Decimal  `json:"total"`
	Date          string           `json:"date"`
	TransactionID string           `json:"transaction_id"`
	StaffID       string           `json:"staff_id,omitempty"`
	Source        Source           `json:"source"`
}

type CatalogEntry struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Brand          string           `json:"brand,omitempty"`
	Category       string           `json:"category,omitempty"`
	RetailPrice    decimal.Decimal  `json:"retail_price"`
	CostPrice      *decimal.Decimal `json:"cost_price,omitempty"`
	QuantityOnHand int              `json:"quantity_on_hand"`
}

type StaffMapping struct {
	SourceStaffID   string  `json:"source_staff_id"`
	LinkedPersonID  *string `json:"linked_person_id,omitempty"`
	SourceStaffName string  `json:"source_staff_name"`
	BranchName      string  `json:"branch_name"`
}

type PersonProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// StaffIdentity is the resolved display identity for one source staff id.
type StaffIdentity struct {
	Name       string
	PhotoURL   string
	SourceName string
	BranchName string
	Linked     bool
}

// RetailReportQuery is the caller-facing input. Dates are YYYY-MM-DD; an empty
// From or To yields an empty report.
type RetailReportQuery struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Location string `json:"location"`
}

type RetailReport struct {
	Period                PeriodInfo     `json:"period"`
	Summary               ReportSummary  `json:"summary"`
	Products              []ProductRow   `json:"products"`
	RedFlags              []RedFlag      `json:"red_flags"`
	Categories            []CategoryRow  `json:"categories"`
	Brands                []BrandRow     `json:"brands"`
	Daily                 []DailyPoint   `json:"daily"`
	Staff                 []StaffRow     `json:"staff"`
	Margin                *MarginData    `json:"margin"`
	DeadStock             []DeadStockRow `json:"dead_stock"`
	NativeSourceAvailable bool           `json:"native_source_available"`
}

type PeriodInfo struct {
	From      string `json:"from"`
	To        string `json:"to"`
	PriorFrom string `json:"prior_from"`
	PriorTo   string `json:"prior_to"`
	SpanDays  int    `json:"span_days"`
}

type ReportSummary struct {
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalUnits           int             `json:"total_units"`
	TotalDiscount        decimal.Decimal `json:"total_discount"`
	DiscountRate         float64         `json:"discount_rate"`
	AverageTicket        decimal.Decimal `json:"average_ticket"`
	ProductCount         int             `json:"product_count"`
	PriorRevenue         decimal.Decimal `json:"prior_revenue"`
	RevenueTrend         float64         `json:"revenue_trend"`
	PriorUnits           int             `json:"prior_units"`
	UnitsTrend           float64         `json:"units_trend"`
	AttachmentRate       int             `json:"attachment_rate"`
	ServiceTransactions  int             `json:"service_transactions"`
	ProductTransactions  int             `json:"product_transactions"`
	AttachedTransactions int             `json:"attached_transactions"`
}

type ProductRow struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Brand        string          `json:"brand,omitempty"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountRate float64         `json:"discount_rate"`
	AveragePrice decimal.Decimal `json:"average_price"`
	PriorRevenue decimal.Decimal `json:"prior_revenue"`
	Trend        float64         `json:"trend"`
	Margin       *float64        `json:"margin"`
	SharePercent float64         `json:"share_percent"`
	LastSold     string          `json:"last_sold"`
}

type FlagType string

const (
	FlagDeclining     FlagType = "declining"
	FlagHeavyDiscount FlagType = "heavy_discount"
	FlagSlowMover     FlagType = "slow_mover"
)

type FlagSeverity string

const (
	SeverityWarning FlagSeverity = "warning"
	SeverityDanger  FlagSeverity = "danger"
)

type RedFlag struct {
	Product  string       `json:"product"`
	Type     FlagType     `json:"type"`
	Severity FlagSeverity `json:"severity"`
	Value    float64      `json:"value"`
	Message  string       `json:"message"`
}

type CategoryRow struct {
	Category     string          `json:"category"`
	Revenue      decimal.Decimal `json:"revenue"`
	Units        int             `json:"units"`
	ProductCount int             `json:"product_count"`
	SharePercent float64         `json:"share_percent"`
}

type BrandRow struct {
	Brand        string          `json:"brand"`
	Revenue      decimal.Decimal `json:"revenue"`
	Units        int             `json:"units"`
	ProductCount int             `json:"product_count"`
	SharePercent float64         `json:"share_percent"`
	Margin       *float64        `json:"margin"`
}

type DailyPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Units   int             `json:"units"`
}

type StaffRow struct {
	StaffID             string          `json:"staff_id"`
	Name                string          `json:"name"`
	PhotoURL            string          `json:"photo_url,omitempty"`
	SourceName          string          `json:"source_name"`
	BranchName          string          `json:"branch_name,omitempty"`
	Linked              bool            `json:"linked"`
	Revenue             decimal.Decimal `json:"revenue"`
	Units               int             `json:"units"`
	AverageTicket       decimal.Decimal `json:"average_ticket"`
	AttachmentRate      int             `json:"attachment_rate"`
	ServiceTransactions int             `json:"service_transactions"`
	ProductTransactions int             `json:"product_transactions"`
}

type MarginData struct {
	Revenue          decimal.Decimal `json:"revenue"`
	Cost             decimal.Decimal `json:"cost"`
	GrossProfit      decimal.Decimal `json:"gross_profit"`
	MarginPercent    float64         `json:"margin_percent"`
	ProductsWithCost int             `json:"products_with_cost"`
	ProductsSold     int             `json:"products_sold"`
}

type DeadStockRow struct {
	Name           string          `json:"name"`
	Brand          string          `json:"brand,omitempty"`
	Category       string          `json:"category,omitempty"`
	QuantityOnHand int             `json:"quantity_on_hand"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	CapitalTiedUp  decimal.Decimal `json:"capital_tied_up"`
	DaysStale      int             `json:"days_stale"`
	LastSold       string          `json:"last_sold,omitempty"`
	SoldInPrior    bool            `json:"sold_in_prior"`
}
