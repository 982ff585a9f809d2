// Package analytics turns normalized sale lines into the retail report.
// Every function here is a pure computation over its arguments; the
// accumulators it builds are owned by the call that created them.
package analytics

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"salonretail/backend/internal/domain"
)

// NormalizeName is the single join key between sales lines and the catalog.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CatalogIndex resolves catalog data by normalized product name. Entries that
// collide on the same normalized name are last-write-wins, per lookup map.
type CatalogIndex struct {
	entries      map[string]domain.CatalogEntry
	costs        map[string]decimal.Decimal
	brands       map[string]string
	costTracking bool
}

func NewCatalogIndex(entries []domain.CatalogEntry) *CatalogIndex {
	idx := &CatalogIndex{
		entries: make(map[string]domain.CatalogEntry, len(entries)),
		costs:   make(map[string]decimal.Decimal, len(entries)),
		brands:  make(map[string]string, len(entries)),
	}
	for _, entry := range entries {
		key := NormalizeName(entry.Name)
		if key == "" {
			continue
		}
		idx.entries[key] = entry
		if entry.CostPrice != nil && entry.CostPrice.IsPositive() {
			idx.costs[key] = *entry.CostPrice
			idx.costTracking = true
		}
		if brand := strings.TrimSpace(entry.Brand); brand != "" {
			idx.brands[key] = brand
		}
	}
	return idx
}

func (c *CatalogIndex) Entry(name string) (domain.CatalogEntry, bool) {
	entry, ok := c.entries[NormalizeName(name)]
	return entry, ok
}

func (c *CatalogIndex) Cost(name string) (decimal.Decimal, bool) {
	cost, ok := c.costs[NormalizeName(name)]
	return cost, ok
}

func (c *CatalogIndex) Brand(name string) (string, bool) {
	brand, ok := c.brands[NormalizeName(name)]
	return brand, ok
}

// CostTrackingEnabled reports whether any catalog entry carries a positive cost.
func (c *CatalogIndex) CostTrackingEnabled() bool {
	return c.costTracking
}

// Keys returns the normalized names in ascending order.
func (c *CatalogIndex) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (c *CatalogIndex) Len() int {
	return len(c.entries)
}
