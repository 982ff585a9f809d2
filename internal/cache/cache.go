package cache

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"salonretail/backend/internal/domain"
)

const reportKeyPrefix = "salonretail:report:retail:"

type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.RetailReport, bool, error)
	Set(ctx context.Context, key string, value *domain.RetailReport, ttl time.Duration) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.RetailReport, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.RetailReport, _ time.Duration) error {
	return nil
}

// ReportKey identifies a report by its date range and canonical location
// selector, so "b,a" and "a,b" share an entry.
func ReportKey(period domain.Period, locations domain.LocationSelector) string {
	parts := []string{period.FromDate(), period.ToDate(), locations.String()}
	sum := blake2b.Sum256([]byte(strings.Join(parts, "|")))
	return reportKeyPrefix + hex.EncodeToString(sum[:16])
}
