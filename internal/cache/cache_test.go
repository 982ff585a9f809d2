package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"salonretail/backend/internal/domain"
)

func TestReportKeyIsCanonical(t *testing.T) {
	period, err := domain.ParsePeriod("2026-03-01", "2026-03-07")
	if err != nil {
		t.Fatalf("parse period: %v", err)
	}
	ab, _ := domain.ParseLocationSelector("3f1c2a8e-6f0b-4c55-9d43-1c0e7d2b9a10,8b7d5c21-94e2-4f0a-a3b6-52d8e1f4c7a9")
	ba, _ := domain.ParseLocationSelector("8B7D5C21-94E2-4F0A-A3B6-52D8E1F4C7A9, 3f1c2a8e-6f0b-4c55-9d43-1c0e7d2b9a10")
	all, _ := domain.ParseLocationSelector("all")

	if ReportKey(period, ab) != ReportKey(period, ba) {
		t.Fatalf("expected selector order to be irrelevant")
	}
	if ReportKey(period, ab) == ReportKey(period, all) {
		t.Fatalf("expected different keys for different selectors")
	}
	other, _ := domain.ParsePeriod("2026-03-01", "2026-03-08")
	if ReportKey(period, all) == ReportKey(other, all) {
		t.Fatalf("expected different keys for different periods")
	}
	if !strings.HasPrefix(ReportKey(period, all), reportKeyPrefix) {
		t.Fatalf("expected key prefix")
	}
}

func TestNoopReportCacheNeverHits(t *testing.T) {
	var c ReportCache = NoopReportCache{}
	if err := c.Set(context.Background(), "k", &domain.RetailReport{}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}
