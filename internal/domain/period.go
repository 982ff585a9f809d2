package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// Period is an inclusive range of calendar days in UTC.
type Period struct {
	From time.Time
	To   time.Time
}

func ParsePeriod(from string, to string) (Period, error) {
	start, err := time.Parse(DateLayout, strings.TrimSpace(from))
	if err != nil {
		return Period{}, fmt.Errorf("invalid from date %q", from)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(to))
	if err != nil {
		return Period{}, fmt.Errorf("invalid to date %q", to)
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("to date %s is before from date %s", to, from)
	}
	return Period{From: start.UTC(), To: end.UTC()}, nil
}

// Days is the inclusive number of calendar days covered.
func (p Period) Days() int {
	return int(p.To.Sub(p.From).Hours()/24) + 1
}

// Prior returns the window of identical length ending the day before From.
func (p Period) Prior() Period {
	priorTo := p.From.AddDate(0, 0, -1)
	return Period{
		From: priorTo.AddDate(0, 0, -(p.Days() - 1)),
		To:   priorTo,
	}
}

// Span returns the smallest period covering both p and other.
func (p Period) Span(other Period) Period {
	span := p
	if other.From.Before(span.From) {
		span.From = other.From
	}
	if other.To.After(span.To) {
		span.To = other.To
	}
	return span
}

// Widen extends the period by days on both ends.
func (p Period) Widen(days int) Period {
	return Period{From: p.From.AddDate(0, 0, -days), To: p.To.AddDate(0, 0, days)}
}

func (p Period) FromDate() string {
	return p.From.Format(DateLayout)
}

func (p Period) ToDate() string {
	return p.To.Format(DateLayout)
}

// Contains reports whether an ISO date string falls inside the period.
func (p Period) Contains(date string) bool {
	return date >= p.FromDate() && date <= p.ToDate()
}

// EndExclusive is the instant just after the last day, for timestamp filters.
func (p Period) EndExclusive() time.Time {
	return p.To.AddDate(0, 0, 1)
}

func DaysBetween(from string, to string) int {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

const AllLocations = "all"

// LocationSelector is either every location or an explicit id list.
type LocationSelector struct {
	All bool
	IDs []string
}

func ParseLocationSelector(raw string) (LocationSelector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllLocations) {
		return LocationSelector{All: true}, nil
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := uuid.Parse(part)
		if err != nil {
			return LocationSelector{}, fmt.Errorf("invalid location id %q", part)
		}
		id := parsed.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return LocationSelector{All: true}, nil
	}
	slices.Sort(ids)
	return LocationSelector{IDs: ids}, nil
}

func (s LocationSelector) Matches(locationID string) bool {
	if s.All {
		return true
	}
	_, found := slices.BinarySearch(s.IDs, strings.ToLower(locationID))
	return found
}

func (s LocationSelector) String() string {
	if s.All {
		return AllLocations
	}
	return strings.Join(s.IDs, ",")
}
