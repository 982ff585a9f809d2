package store

import (
	"context"
	"errors"

	"salonretail/backend/internal/domain"
)

var (
	ErrInvalidQuery      = errors.New("invalid query")
	ErrNativeUnsupported = errors.New("native sales source not provisioned")
)

// Capability is the result of probing for an optional data source.
type Capability int

const (
	CapabilitySupported Capability = iota
	CapabilityUnsupported
)

func (c Capability) String() string {
	if c == CapabilitySupported {
		return "supported"
	}
	return "unsupported"
}

// Page is a half-open row window [Offset, Offset+Limit).
type Page struct {
	Offset int
	Limit  int
}

type LegacyItemFilter struct {
	Period    domain.Period
	Locations domain.LocationSelector
}

type NativeItemFilter struct {
	Period domain.Period
}

// Repository is the read-only view of the sales, catalog and staff feeds.
// List methods must return rows in a stable order (primary key ascending) so
// successive pages neither overlap nor skip rows.
type Repository interface {
	ListLegacyItems(ctx context.Context, filter LegacyItemFilter, page Page) ([]domain.LegacySaleItem, error)
	ProbeNativeSales(ctx context.Context) (Capability, error)
	ListNativeItems(ctx context.Context, filter NativeItemFilter, page Page) ([]domain.NativeSaleItem, error)
	GetSaleHeaders(ctx context.Context, ids []string) ([]domain.SaleHeader, error)
	ListCatalog(ctx context.Context, page Page) ([]domain.CatalogEntry, error)
	ListStaffMappings(ctx context.Context, sourceStaffIDs []string) ([]domain.StaffMapping, error)
	ListPersonProfiles(ctx context.Context, ids []string) ([]domain.PersonProfile, error)
}
