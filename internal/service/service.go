package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"salonretail/backend/internal/analytics"
	"salonretail/backend/internal/cache"
	"salonretail/backend/internal/domain"
	"salonretail/backend/internal/paging"
	"salonretail/backend/internal/store"
)

const (
	// headerChunkSize bounds the id list of one sale-header lookup.
	headerChunkSize      = 200
	headerLookupParallel = 4
	// nativeItemSlackDays pads the item timestamp filter. Line dates come from
	// the sale header, which can fall on a different day than its items.
	nativeItemSlackDays = 1
)

type Options struct {
	PageSize int
	CacheTTL time.Duration
	// Timeout caps one report build; zero means the caller's context only.
	Timeout time.Duration
	Now     func() time.Time
}

type Service struct {
	repo     store.Repository
	cache    cache.ReportCache
	pageSize int
	cacheTTL time.Duration
	timeout  time.Duration
	now      func() time.Time
}

func New(repo store.Repository, reportCache cache.ReportCache, opts Options) *Service {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}
	if opts.PageSize < 1 {
		opts.PageSize = paging.DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		repo:     repo,
		cache:    reportCache,
		pageSize: opts.PageSize,
		cacheTTL: opts.CacheTTL,
		timeout:  opts.Timeout,
		now:      opts.Now,
	}
}

// RetailReport builds the retail analytics report for the query. A query
// without both dates yields the empty report. Any fetch failure aborts the
// whole build; a partial report is never returned.
func (s *Service) RetailReport(ctx context.Context, query domain.RetailReportQuery) (domain.RetailReport, error) {
	if strings.TrimSpace(query.From) == "" || strings.TrimSpace(query.To) == "" {
		return analytics.EmptyReport(), nil
	}

	period, err := domain.ParsePeriod(query.From, query.To)
	if err != nil {
		return domain.RetailReport{}, fmt.Errorf("%w: %v", store.ErrInvalidQuery, err)
	}
	locations, err := domain.ParseLocationSelector(query.Location)
	if err != nil {
		return domain.RetailReport{}, fmt.Errorf("%w: %v", store.ErrInvalidQuery, err)
	}

	cacheKey := cache.ReportKey(period, locations)
	cached, ok, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		log.Printf("[service] WARN: report cache read failed key=%s: %v", cacheKey, err)
	} else if ok && cached != nil {
		return *cached, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report, err := s.buildReport(ctx, period, locations)
	if err != nil {
		return domain.RetailReport{}, err
	}

	if !isEmptyReport(report) {
		if err := s.cache.Set(ctx, cacheKey, &report, s.cacheTTL); err != nil {
			log.Printf("[service] WARN: report cache write failed key=%s: %v", cacheKey, err)
		}
	}
	return report, nil
}

// ExportRetailReport renders one facet of the report as CSV and returns the
// download filename with it.
func (s *Service) ExportRetailReport(ctx context.Context, query domain.RetailReportQuery, facetName string) (string, []byte, error) {
	facet, err := analytics.ParseFacet(facetName)
	if err != nil {
		return "", nil, err
	}

	report, err := s.RetailReport(ctx, query)
	if err != nil {
		return "", nil, err
	}

	body, err := analytics.ExportCSV(report, facet)
	if err != nil {
		return "", nil, err
	}
	return analytics.ExportFilename(facet, s.now().UTC()), body, nil
}

type sourceData struct {
	currentLegacy []domain.LegacySaleItem
	priorLegacy   []domain.LegacySaleItem
	native        []domain.SourceRecord
	nativeEnabled bool
	catalog       []domain.CatalogEntry
}

func (s *Service) buildReport(ctx context.Context, period domain.Period, locations domain.LocationSelector) (domain.RetailReport, error) {
	prior := period.Prior()
	data, err := s.fetchSources(ctx, period, prior, locations)
	if err != nil {
		return domain.RetailReport{}, err
	}

	current := analytics.Aggregate(normalize(data.currentLegacy, data.native, period))
	previous := analytics.Aggregate(normalize(data.priorLegacy, data.native, prior))

	staff, err := s.staffDirectory(ctx, current.StaffIDs())
	if err != nil {
		return domain.RetailReport{}, err
	}

	return analytics.BuildReport(analytics.ReportInput{
		Period:                period,
		Current:               current,
		Prior:                 previous,
		Catalog:               analytics.NewCatalogIndex(data.catalog),
		Staff:                 staff,
		NativeSourceAvailable: data.nativeEnabled,
	}), nil
}

// fetchSources runs the independent reads concurrently. The first failure
// cancels the others.
func (s *Service) fetchSources(ctx context.Context, period domain.Period, prior domain.Period, locations domain.LocationSelector) (sourceData, error) {
	var data sourceData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.fetchLegacy(gctx, period, locations)
		if err != nil {
			return fmt.Errorf("load current sales: %w", err)
		}
		data.currentLegacy = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.fetchLegacy(gctx, prior, locations)
		if err != nil {
			return fmt.Errorf("load prior sales: %w", err)
		}
		data.priorLegacy = rows
		return nil
	})
	g.Go(func() error {
		records, enabled, err := s.fetchNative(gctx, period.Span(prior), locations)
		if err != nil {
			return fmt.Errorf("load point-of-sale sales: %w", err)
		}
		data.native = records
		data.nativeEnabled = enabled
		return nil
	})
	g.Go(func() error {
		rows, err := paging.FetchAll(gctx, s.pageSize, func(ctx context.Context, page store.Page) ([]domain.CatalogEntry, error) {
			return s.repo.ListCatalog(ctx, page)
		})
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		data.catalog = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return sourceData{}, err
	}
	return data, nil
}

func (s *Service) fetchLegacy(ctx context.Context, period domain.Period, locations domain.LocationSelector) ([]domain.LegacySaleItem, error) {
	filter := store.LegacyItemFilter{Period: period, Locations: locations}
	return paging.FetchAll(ctx, s.pageSize, func(ctx context.Context, page store.Page) ([]domain.LegacySaleItem, error) {
		return s.repo.ListLegacyItems(ctx, filter, page)
	})
}

// fetchNative loads point-of-sale lines around window and joins them with
// their sale headers. Normalization later keeps only lines whose header date
// falls inside the reporting periods. The bool result is false when the deployment has no
// point-of-sale tables, in which case no records are returned.
func (s *Service) fetchNative(ctx context.Context, window domain.Period, locations domain.LocationSelector) ([]domain.SourceRecord, bool, error) {
	capability, err := s.repo.ProbeNativeSales(ctx)
	if err != nil {
		return nil, false, err
	}
	if capability == store.CapabilityUnsupported {
		return nil, false, nil
	}

	filter := store.NativeItemFilter{Period: window.Widen(nativeItemSlackDays)}
	items, err := paging.FetchAll(ctx, s.pageSize, func(ctx context.Context, page store.Page) ([]domain.NativeSaleItem, error) {
		return s.repo.ListNativeItems(ctx, filter, page)
	})
	if errors.Is(err, store.ErrNativeUnsupported) {
		log.Printf("[service] WARN: point-of-sale tables disappeared after probe, using legacy sales only")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	headers, err := s.fetchHeaders(ctx, saleIDs(items))
	if errors.Is(err, store.ErrNativeUnsupported) {
		log.Printf("[service] WARN: point-of-sale headers disappeared after probe, using legacy sales only")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	records := make([]domain.SourceRecord, 0, len(items))
	for _, item := range items {
		header, ok := headers[item.SaleID]
		if !ok {
			records = append(records, domain.NativeRecord(item, nil))
			continue
		}
		if !locations.Matches(header.LocationID) {
			continue
		}
		records = append(records, domain.NativeRecord(item, &header))
	}
	return records, true, nil
}

// fetchHeaders looks sale headers up in bounded chunks, a few at a time.
func (s *Service) fetchHeaders(ctx context.Context, ids []string) (map[string]domain.SaleHeader, error) {
	chunks := paging.Chunk(ids, headerChunkSize)
	results := make([][]domain.SaleHeader, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(headerLookupParallel)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			headers, err := s.repo.GetSaleHeaders(gctx, chunk)
			if err != nil {
				return fmt.Errorf("load sale headers: %w", err)
			}
			results[i] = headers
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.SaleHeader, len(ids))
	for _, headers := range results {
		for _, header := range headers {
			byID[header.ID] = header
		}
	}
	return byID, nil
}

// staffDirectory resolves display identities for the staff seen in the
// current period. It runs after aggregation because the id list comes from it.
func (s *Service) staffDirectory(ctx context.Context, staffIDs []string) (analytics.StaffDirectory, error) {
	if len(staffIDs) == 0 {
		return analytics.StaffDirectory{}, nil
	}

	var mappings []domain.StaffMapping
	for _, chunk := range paging.Chunk(staffIDs, headerChunkSize) {
		rows, err := s.repo.ListStaffMappings(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("load staff mappings: %w", err)
		}
		mappings = append(mappings, rows...)
	}

	personIDs := make([]string, 0, len(mappings))
	for _, mapping := range mappings {
		if mapping.LinkedPersonID != nil && *mapping.LinkedPersonID != "" {
			personIDs = append(personIDs, *mapping.LinkedPersonID)
		}
	}
	slices.Sort(personIDs)
	personIDs = slices.Compact(personIDs)

	var profiles []domain.PersonProfile
	for _, chunk := range paging.Chunk(personIDs, headerChunkSize) {
		rows, err := s.repo.ListPersonProfiles(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("load staff profiles: %w", err)
		}
		profiles = append(profiles, rows...)
	}

	return analytics.BuildStaffDirectory(mappings, profiles), nil
}

func normalize(legacy []domain.LegacySaleItem, native []domain.SourceRecord, window domain.Period) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(legacy)+len(native))
	for _, row := range legacy {
		if item, ok := analytics.Normalize(domain.LegacyRecord(row), window); ok {
			items = append(items, item)
		}
	}
	for _, rec := range native {
		if item, ok := analytics.Normalize(rec, window); ok {
			items = append(items, item)
		}
	}
	return items
}

func saleIDs(items []domain.NativeSaleItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.SaleID != "" {
			ids = append(ids, item.SaleID)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func isEmptyReport(report domain.RetailReport) bool {
	return len(report.Products) == 0 && report.Summary.ServiceTransactions == 0
}
