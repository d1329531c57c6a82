package model

import "time"

// City is the root of the City > Hotel > Garage > Car hierarchy.
type City struct {
	ID          uint64
	Name        string
	Population  int64
	CreatedDate time.Time
}
