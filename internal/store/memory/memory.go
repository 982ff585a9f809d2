package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"salonretail/backend/internal/domain"
	"salonretail/backend/internal/store"
)

// Dataset is the full content of a memory store.
type Dataset struct {
	LegacyItems   []domain.LegacySaleItem
	NativeItems   []domain.NativeSaleItem
	SaleHeaders   []domain.SaleHeader
	Catalog       []domain.CatalogEntry
	StaffMappings []domain.StaffMapping
	Profiles      []domain.PersonProfile
	// NativeEnabled mirrors whether the point-of-sale tables exist.
	NativeEnabled bool
}

type Store struct {
	mu            sync.RWMutex
	legacyItems   []domain.LegacySaleItem
	nativeItems   []domain.NativeSaleItem
	headersByID   map[string]domain.SaleHeader
	catalog       []domain.CatalogEntry
	mappingsByID  map[string]domain.StaffMapping
	profilesByID  map[string]domain.PersonProfile
	nativeEnabled bool
}

func New(data Dataset) *Store {
	s := &Store{
		legacyItems:   slices.Clone(data.LegacyItems),
		nativeItems:   slices.Clone(data.NativeItems),
		headersByID:   make(map[string]domain.SaleHeader, len(data.SaleHeaders)),
		catalog:       slices.Clone(data.Catalog),
		mappingsByID:  make(map[string]domain.StaffMapping, len(data.StaffMappings)),
		profilesByID:  make(map[string]domain.PersonProfile, len(data.Profiles)),
		nativeEnabled: data.NativeEnabled,
	}
	slices.SortStableFunc(s.legacyItems, func(a, b domain.LegacySaleItem) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(s.nativeItems, func(a, b domain.NativeSaleItem) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(s.catalog, func(a, b domain.CatalogEntry) int { return cmp.Compare(a.ID, b.ID) })
	for _, header := range data.SaleHeaders {
		s.headersByID[header.ID] = header
	}
	for _, mapping := range data.StaffMappings {
		s.mappingsByID[mapping.SourceStaffID] = mapping
	}
	for _, profile := range data.Profiles {
		s.profilesByID[profile.ID] = profile
	}
	return s
}

func (s *Store) ListLegacyItems(ctx context.Context, filter store.LegacyItemFilter, page store.Page) ([]domain.LegacySaleItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.LegacySaleItem, 0)
	for _, item := range s.legacyItems {
		if !filter.Locations.Matches(item.LocationID) {
			continue
		}
		if len(item.TransactionDate) < len(domain.DateLayout) || !filter.Period.Contains(item.TransactionDate[:len(domain.DateLayout)]) {
			continue
		}
		matched = append(matched, item)
	}
	return window(matched, page), nil
}

func (s *Store) ProbeNativeSales(ctx context.Context) (store.Capability, error) {
	if err := ctx.Err(); err != nil {
		return store.CapabilityUnsupported, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.nativeEnabled {
		return store.CapabilityUnsupported, nil
	}
	return store.CapabilitySupported, nil
}

func (s *Store) ListNativeItems(ctx context.Context, filter store.NativeItemFilter, page store.Page) ([]domain.NativeSaleItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.nativeEnabled {
		return nil, store.ErrNativeUnsupported
	}
	end := filter.Period.EndExclusive()
	matched := make([]domain.NativeSaleItem, 0)
	for _, item := range s.nativeItems {
		if item.CreatedAt.Before(filter.Period.From) || !item.CreatedAt.Before(end) {
			continue
		}
		matched = append(matched, item)
	}
	return window(matched, page), nil
}

func (s *Store) GetSaleHeaders(ctx context.Context, ids []string) ([]domain.SaleHeader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.nativeEnabled {
		return nil, store.ErrNativeUnsupported
	}
	headers := make([]domain.SaleHeader, 0, len(ids))
	for _, id := range ids {
		if header, ok := s.headersByID[id]; ok {
			headers = append(headers, header)
		}
	}
	slices.SortFunc(headers, func(a, b domain.SaleHeader) int { return cmp.Compare(a.ID, b.ID) })
	return headers, nil
}

func (s *Store) ListCatalog(ctx context.Context, page store.Page) ([]domain.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return window(s.catalog, page), nil
}

func (s *Store) ListStaffMappings(ctx context.Context, sourceStaffIDs []string) ([]domain.StaffMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	mappings := make([]domain.StaffMapping, 0, len(sourceStaffIDs))
	for _, id := range sourceStaffIDs {
		if mapping, ok := s.mappingsByID[id]; ok {
			mappings = append(mappings, mapping)
		}
	}
	return mappings, nil
}

func (s *Store) ListPersonProfiles(ctx context.Context, ids []string) ([]domain.PersonProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]domain.PersonProfile, 0, len(ids))
	for _, id := range ids {
		if profile, ok := s.profilesByID[id]; ok {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

// AddLegacyItem appends a row the way a concurrent import would. It exists so
// callers can exercise paging against a store that changes between pages.
func (s *Store) AddLegacyItem(item domain.LegacySaleItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, _ := slices.BinarySearchFunc(s.legacyItems, item.ID, func(row domain.LegacySaleItem, id string) int {
		return strings.Compare(row.ID, id)
	})
	s.legacyItems = slices.Insert(s.legacyItems, idx, item)
}

func window[T any](rows []T, page store.Page) []T {
	if page.Offset >= len(rows) || page.Limit <= 0 {
		return []T{}
	}
	end := min(page.Offset+page.Limit, len(rows))
	return slices.Clone(rows[page.Offset:end])
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
