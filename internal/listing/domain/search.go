package domain

import (
	"sort"
	"strings"
)

// FilterListings applies the feed search semantics over an already-fetched
// slice. A listing matches when the term occurs case-insensitively in its
// name or brand, and the brand filter (when set) equals the listing brand
// ignoring case. Empty filters match everything; input order is preserved.
func FilterListings(listings []*Listing, term, brand string) []*Listing {
	if term == "" && brand == "" {
		return listings
	}
	needle := strings.ToLower(term)
	matched := make([]*Listing, 0, len(listings))
	for _, l := range listings {
		if term != "" &&
			!strings.Contains(strings.ToLower(l.Name), needle) &&
			!strings.Contains(strings.ToLower(l.Brand), needle) {
			continue
		}
		if brand != "" && !strings.EqualFold(l.Brand, brand) {
			continue
		}
		matched = append(matched, l)
	}
	return matched
}

// DistinctBrands collects every non-empty brand value verbatim. Values are
// case-sensitive: "Honda" and "honda" are distinct entries.
func DistinctBrands(listings []*Listing) map[string]struct{} {
	brands := make(map[string]struct{})
	for _, l := range listings {
		if l.Brand != "" {
			brands[l.Brand] = struct{}{}
		}
	}
	return brands
}

// SortByNewest orders a feed in place by creation time descending, breaking
// ties by id ascending so equal timestamps keep a deterministic order.
func SortByNewest(listings []*Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
