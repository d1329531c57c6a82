package model

import "time"

// Hotel belongs to a city and may own multiple garages.
type Hotel struct {
	ID          uint64
	Name        string
	Stars       int
	CityID      uint64
	CityName    string // joined from cities, empty when not loaded
	CreatedDate time.Time
}
