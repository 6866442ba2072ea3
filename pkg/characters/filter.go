package characters

import (
	"sort"
	"strings"
)

// Sort field and order values accepted by Process.
const (
	SortByID   = "id"
	SortByName = "name"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Eligible reports whether a character passes the fixed eligibility
// predicate: Human species, Alive status, Earth-prefixed origin name.
func Eligible(c Character) bool {
	return c.Species == "Human" &&
		c.Status == "Alive" &&
		strings.HasPrefix(c.Origin.Name, "Earth")
}

// Project converts an eligible character to its output shape.
func Project(c Character) FilteredCharacter {
	return FilteredCharacter{
		ID:      c.ID,
		Name:    c.Name,
		Status:  c.Status,
		Species: c.Species,
		Origin:  c.Origin.Name,
	}
}

// Process filters raw characters by the eligibility predicate, projects the
// matches, stable-sorts them by sortBy/sortOrder and truncates to limit.
// An empty input or an empty filtered set yields an empty slice.
//
// Sorting is stable so pagination stays deterministic when sort keys tie.
func Process(raw []Character, sortBy, sortOrder string, limit int) []FilteredCharacter {
	filtered := make([]FilteredCharacter, 0, len(raw))
	for _, c := range raw {
		if Eligible(c) {
			filtered = append(filtered, Project(c))
		}
	}

	desc := sortOrder == OrderDesc
	sort.SliceStable(filtered, func(i, j int) bool {
		var less bool
		switch sortBy {
		case SortByName:
			less = filtered[i].Name < filtered[j].Name
		default:
			less = filtered[i].ID < filtered[j].ID
		}
		if desc {
			return !less && !equalKey(filtered[i], filtered[j], sortBy)
		}
		return less
	})

	if limit >= 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered
}

// equalKey reports whether two records compare equal under the sort field.
// Needed to keep the descending comparator irreflexive for stable sorting.
func equalKey(a, b FilteredCharacter, sortBy string) bool {
	if sortBy == SortByName {
		return a.Name == b.Name
	}
	return a.ID == b.ID
}
