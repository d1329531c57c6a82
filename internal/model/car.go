package model

import "time"

// Car is parked in a garage. License plates are stored upper-cased and are
// unique across all garages.
type Car struct {
	ID           uint64
	Brand        string
	LicensePlate string
	OwnerName    string
	GarageID     uint64
	GarageName   string // joined from garages, empty when not loaded
	CreatedDate  time.Time
}
