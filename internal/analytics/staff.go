package analytics

import (
	"cmp"
	"slices"
	"strings"

	"salonretail/backend/internal/domain"
)

// StaffDirectory maps a source staff id to its display identity.
type StaffDirectory map[string]domain.StaffIdentity

// BuildStaffDirectory joins staff mappings with the linked person profiles.
// A mapping whose profile is missing keeps its source-system name.
func BuildStaffDirectory(mappings []domain.StaffMapping, profiles []domain.PersonProfile) StaffDirectory {
	byID := make(map[string]domain.PersonProfile, len(profiles))
	for _, profile := range profiles {
		byID[profile.ID] = profile
	}

	dir := make(StaffDirectory, len(mappings))
	for _, mapping := range mappings {
		identity := domain.StaffIdentity{
			Name:       strings.TrimSpace(mapping.SourceStaffName),
			SourceName: strings.TrimSpace(mapping.SourceStaffName),
			BranchName: strings.TrimSpace(mapping.BranchName),
		}
		if mapping.LinkedPersonID != nil {
			if profile, ok := byID[*mapping.LinkedPersonID]; ok {
				identity.Linked = true
				identity.PhotoURL = profile.PhotoURL
				if name := strings.TrimSpace(profile.DisplayName); name != "" {
					identity.Name = name
				}
			}
		}
		dir[mapping.SourceStaffID] = identity
	}
	return dir
}

// ResolveStaff builds the staff leaderboard. Staff without product revenue
// are left out; unmapped ids are shown by id.
func ResolveStaff(agg *PeriodAggregate, dir StaffDirectory) []domain.StaffRow {
	rows := make([]domain.StaffRow, 0, len(agg.Staff))
	for _, id := range agg.StaffIDs() {
		staff := agg.Staff[id]
		if !staff.Revenue.IsPositive() {
			continue
		}

		identity := dir[id]
		name := identity.Name
		if name == "" {
			name = id
		}
		rate, _ := AttachmentRate(staff.ServiceTransactions, staff.ProductTransactions)
		rows = append(rows, domain.StaffRow{
			StaffID:             id,
			Name:                name,
			PhotoURL:            identity.PhotoURL,
			SourceName:          identity.SourceName,
			BranchName:          identity.BranchName,
			Linked:              identity.Linked,
			Revenue:             staff.Revenue,
			Units:               staff.Units,
			AverageTicket:       AverageTicket(staff.Revenue, staff.Units),
			AttachmentRate:      rate,
			ServiceTransactions: len(staff.ServiceTransactions),
			ProductTransactions: len(staff.ProductTransactions),
		})
	}

	slices.SortFunc(rows, func(a, b domain.StaffRow) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.StaffID, b.StaffID)
	})
	return rows
}
