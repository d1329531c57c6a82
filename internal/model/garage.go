package model

import "time"

// Garage belongs to a hotel and parks up to Capacity cars.
type Garage struct {
	ID          uint64
	Name        string
	Capacity    int
	HotelID     uint64
	HotelName   string // joined from hotels, empty when not loaded
	CreatedDate time.Time
}
