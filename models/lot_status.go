package models

import "time"

// LotStatus is the occupancy snapshot published by the camera detector.
type LotStatus struct {
	ParkedCars      int       `json:"parkedCars" binding:"min=0"`
	AvailableSpaces int       `json:"availableSpaces" binding:"min=0"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
