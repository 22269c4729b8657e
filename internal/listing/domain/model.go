package domain

import (
	"strconv"
	"strings"
	"time"
)

// Image references a photo uploaded to blob storage. The ID is generated
// client-side at upload time and never reused; OwnerID scopes the storage
// path; URL is resolved once after a successful upload and stable afterwards.
type Image struct {
	ID      string
	OwnerID string
	URL     string
}

// Listing is a vehicle-for-sale record. ID is assigned by the document store
// on creation and immutable, as is OwnerID. A listing always carries at least
// one image once persisted.
type Listing struct {
	ID          string
	OwnerID     string
	Name        string
	Brand       string
	Model       string
	Year        string
	Km          string
	Price       string
	City        string
	Description string
	CreatedAt   time.Time
	Images      []Image
}

// PriceAmount coerces the stored price into a numeric amount. Source data
// mixes plain numbers with user-typed strings, so whitespace is tolerated.
func (l *Listing) PriceAmount() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(l.Price), 64)
}

// Profile holds a seller's contact data. At most one profile exists per
// owner; UpdatedAt moves on every save, CreatedAt only at first persistence.
type Profile struct {
	ID        string
	OwnerID   string
	Name      string
	Email     string
	Phone     string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
