package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
	"salonretail/backend/internal/store"
)

// undefinedTable is the SQLSTATE postgres returns for a missing relation.
const undefinedTable = "42P01"

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListLegacyItems(ctx context.Context, filter store.LegacyItemFilter, page store.Page) ([]domain.LegacySaleItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_name, item_category, item_type, quantity, unit_price, discount,
		       total_amount, transaction_date, transaction_id, staff_id, location_id::text
		FROM legacy_transaction_items
		WHERE transaction_date >= $1 AND transaction_date < $2
		  AND ($3::boolean OR location_id::text = ANY($4))
		ORDER BY id
		LIMIT $5 OFFSET $6
	`, filter.Period.From, filter.Period.EndExclusive(), filter.Locations.All, locationIDs(filter.Locations), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.LegacySaleItem, 0, page.Limit)
	for rows.Next() {
		var (
			item      domain.LegacySaleItem
			category  sql.NullString
			staffID   sql.NullString
			unitPrice decimal.NullDecimal
			discount  decimal.NullDecimal
			txDate    time.Time
		)
		if err := rows.Scan(
			&item.ID, &item.ItemName, &category, &item.ItemType, &item.Quantity, &unitPrice, &discount,
			&item.TotalAmount, &txDate, &item.TransactionID, &staffID, &item.LocationID,
		); err != nil {
			return nil, err
		}
		item.ItemCategory = nullString(category)
		item.StaffID = nullString(staffID)
		item.UnitPrice = nullDecimal(unitPrice)
		item.Discount = nullDecimal(discount)
		item.TransactionDate = txDate.UTC().Format(time.RFC3339)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// ProbeNativeSales checks for the point-of-sale tables, which only exist on
// deployments that run the in-house register.
func (s *Store) ProbeNativeSales(ctx context.Context) (store.Capability, error) {
	var itemsTable, salesTable sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT to_regclass('pos_sale_items')::text, to_regclass('pos_sales')::text
	`).Scan(&itemsTable, &salesTable)
	if err != nil {
		return store.CapabilityUnsupported, err
	}
	if !itemsTable.Valid || !salesTable.Valid {
		return store.CapabilityUnsupported, nil
	}
	return store.CapabilitySupported, nil
}

func (s *Store) ListNativeItems(ctx context.Context, filter store.NativeItemFilter, page store.Page) ([]domain.NativeSaleItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sale_id, product_name, category, quantity, unit_price, discount, line_total, created_at
		FROM pos_sale_items
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY id
		LIMIT $3 OFFSET $4
	`, filter.Period.From, filter.Period.EndExclusive(), page.Limit, page.Offset)
	if err != nil {
		return nil, mapNativeError(err)
	}
	defer rows.Close()

	items := make([]domain.NativeSaleItem, 0, page.Limit)
	for rows.Next() {
		var (
			item     domain.NativeSaleItem
			category sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductName, &category, &item.Quantity,
			&item.UnitPrice, &item.Discount, &item.LineTotal, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Category = nullString(category)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapNativeError(err)
	}

	return items, nil
}

func (s *Store) GetSaleHeaders(ctx context.Context, ids []string) ([]domain.SaleHeader, error) {
	if len(ids) == 0 {
		return []domain.SaleHeader{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id::text, staff_id, created_at
		FROM pos_sales
		WHERE id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, mapNativeError(err)
	}
	defer rows.Close()

	headers := make([]domain.SaleHeader, 0, len(ids))
	for rows.Next() {
		var (
			header  domain.SaleHeader
			staffID sql.NullString
		)
		if err := rows.Scan(&header.ID, &header.LocationID, &staffID, &header.CreatedAt); err != nil {
			return nil, err
		}
		header.StaffID = nullString(staffID)
		headers = append(headers, header)
	}
	if err := rows.Err(); err != nil {
		return nil, mapNativeError(err)
	}

	return headers, nil
}

func (s *Store) ListCatalog(ctx context.Context, page store.Page) ([]domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(brand, ''), COALESCE(category, ''), retail_price, cost_price, quantity_on_hand
		FROM products
		WHERE active = true
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.CatalogEntry, 0, page.Limit)
	for rows.Next() {
		var (
			entry domain.CatalogEntry
			cost  decimal.NullDecimal
		)
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Brand, &entry.Category, &entry.RetailPrice, &cost, &entry.QuantityOnHand); err != nil {
			return nil, err
		}
		entry.CostPrice = nullDecimal(cost)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *Store) ListStaffMappings(ctx context.Context, sourceStaffIDs []string) ([]domain.StaffMapping, error) {
	if len(sourceStaffIDs) == 0 {
		return []domain.StaffMapping{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_staff_id, linked_person_id::text, COALESCE(source_staff_name, ''), COALESCE(branch_name, '')
		FROM staff_mappings
		WHERE source_staff_id = ANY($1)
		ORDER BY source_staff_id
	`, sourceStaffIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := make([]domain.StaffMapping, 0, len(sourceStaffIDs))
	for rows.Next() {
		var (
			mapping  domain.StaffMapping
			personID sql.NullString
		)
		if err := rows.Scan(&mapping.SourceStaffID, &personID, &mapping.SourceStaffName, &mapping.BranchName); err != nil {
			return nil, err
		}
		mapping.LinkedPersonID = nullString(personID)
		mappings = append(mappings, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return mappings, nil
}

func (s *Store) ListPersonProfiles(ctx context.Context, ids []string) ([]domain.PersonProfile, error) {
	if len(ids) == 0 {
		return []domain.PersonProfile{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id::text, COALESCE(display_name, ''), COALESCE(photo_url, '')
		FROM person_profiles
		WHERE id::text = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]domain.PersonProfile, 0, len(ids))
	for rows.Next() {
		var profile domain.PersonProfile
		if err := rows.Scan(&profile.ID, &profile.DisplayName, &profile.PhotoURL); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// mapNativeError turns a missing point-of-sale table into ErrNativeUnsupported.
// The probe normally catches this first; the mapping covers a table dropped
// between the probe and the query.
func mapNativeError(err error) error {
	if isUndefinedTable(err) {
		return store.ErrNativeUnsupported
	}
	return err
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == undefinedTable
	}
	return false
}

func locationIDs(sel domain.LocationSelector) []string {
	if sel.All || len(sel.IDs) == 0 {
		return []string{}
	}
	return sel.IDs
}

func nullString(val sql.NullString) *string {
	if !val.Valid {
		return nil
	}
	out := val.String
	return &out
}

func nullDecimal(val decimal.NullDecimal) *decimal.Decimal {
	if !val.Valid {
		return nil
	}
	out := val.Decimal
	return &out
}
