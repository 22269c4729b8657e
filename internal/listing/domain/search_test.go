package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func feedFixture() []*Listing {
	return []*Listing{
		{ID: "1", Name: "Golf GTI", Brand: "Volkswagen"},
		{ID: "2", Name: "Civic", Brand: "Honda"},
		{ID: "3", Name: "320i", Brand: "BMW"},
	}
}

func TestFilterListingsEmptyFiltersIsIdentity(t *testing.T) {
	listings := feedFixture()
	result := FilterListings(listings, "", "")
	assert.Equal(t, listings, result)
}

func TestFilterListingsMatchesNameCaseInsensitive(t *testing.T) {
	result := FilterListings(feedFixture(), "golf", "")
	assert.Len(t, result, 1)
	assert.Equal(t, "Golf GTI", result[0].Name)

	result = FilterListings(feedFixture(), "GOLF", "")
	assert.Len(t, result, 1)
}

func TestFilterListingsMatchesBrandSubstring(t *testing.T) {
	result := FilterListings(feedFixture(), "honda", "")
	assert.Len(t, result, 1)
	assert.Equal(t, "Civic", result[0].Name)
}

func TestFilterListingsBrandEqualityIgnoresCase(t *testing.T) {
	result := FilterListings(feedFixture(), "", "volkswagen")
	assert.Len(t, result, 1)
	assert.Equal(t, "Golf GTI", result[0].Name)

	// Brand filter is exact equality, not substring.
	result = FilterListings(feedFixture(), "", "Volks")
	assert.Empty(t, result)
}

func TestFilterListingsCombinesTermAndBrand(t *testing.T) {
	listings := []*Listing{
		{ID: "1", Name: "Golf GTI", Brand: "Volkswagen"},
		{ID: "2", Name: "Golf Variant", Brand: "Volkswagen"},
		{ID: "3", Name: "Golf Replica", Brand: "Honda"},
	}
	result := FilterListings(listings, "golf", "Volkswagen")
	assert.Len(t, result, 2)
	assert.Equal(t, "1", result[0].ID)
	assert.Equal(t, "2", result[1].ID)
}

func TestFilterListingsPreservesInputOrder(t *testing.T) {
	listings := []*Listing{
		{ID: "9", Name: "Golf", Brand: "Volkswagen"},
		{ID: "2", Name: "Golf GTI", Brand: "Volkswagen"},
		{ID: "5", Name: "Golf Variant", Brand: "Volkswagen"},
	}
	result := FilterListings(listings, "golf", "")
	assert.Equal(t, []string{"9", "2", "5"}, []string{result[0].ID, result[1].ID, result[2].ID})
}

func TestDistinctBrandsIsCaseSensitive(t *testing.T) {
	listings := []*Listing{
		{Brand: "Honda"},
		{Brand: "honda"},
		{Brand: "BMW"},
	}
	brands := DistinctBrands(listings)
	assert.Len(t, brands, 3)
	assert.Contains(t, brands, "Honda")
	assert.Contains(t, brands, "honda")
	assert.Contains(t, brands, "BMW")
}

func TestDistinctBrandsSkipsEmptyAndDeduplicates(t *testing.T) {
	listings := []*Listing{
		{Brand: "Honda"},
		{Brand: ""},
		{Brand: "Honda"},
	}
	brands := DistinctBrands(listings)
	assert.Len(t, brands, 1)
	assert.Contains(t, brands, "Honda")
}

func TestSortByNewestOrdersCreatedDescending(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	listings := []*Listing{
		{ID: "a", CreatedAt: base},
		{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
	}
	SortByNewest(listings)
	assert.Equal(t, "c", listings[0].ID)
	assert.Equal(t, "b", listings[1].ID)
	assert.Equal(t, "a", listings[2].ID)
}

func TestSortByNewestBreaksTiesByIDAscending(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	listings := []*Listing{
		{ID: "zzz", CreatedAt: ts},
		{ID: "aaa", CreatedAt: ts},
		{ID: "mmm", CreatedAt: ts},
	}
	SortByNewest(listings)
	assert.Equal(t, "aaa", listings[0].ID)
	assert.Equal(t, "mmm", listings[1].ID)
	assert.Equal(t, "zzz", listings[2].ID)
}

func TestPriceAmountCoercesStoredValues(t *testing.T) {
	l := &Listing{Price: "50000"}
	amount, err := l.PriceAmount()
	assert.NoError(t, err)
	assert.Equal(t, 50000.0, amount)

	l = &Listing{Price: " 19990.50 "}
	amount, err = l.PriceAmount()
	assert.NoError(t, err)
	assert.Equal(t, 19990.5, amount)

	l = &Listing{Price: "R$ 50.000"}
	_, err = l.PriceAmount()
	assert.Error(t, err)
}
