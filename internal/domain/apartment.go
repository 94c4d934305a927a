package domain

import "github.com/shopspring/decimal"

// Apartment is a read-only projection of a listing. The listings
// component owns the full record; the reservation engine only needs
// identity, capacity and a display room number.
type Apartment struct {
	ID         string
	RoomNumber string
	Bedrooms   int
	Price      decimal.Decimal
}

// Sleeps reports the guest capacity of the apartment.
func (a Apartment) Sleeps() int {
	return a.Bedrooms * 2
}
