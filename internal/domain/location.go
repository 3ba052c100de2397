package domain

import "time"

// Location is a single position fix supplied by the platform's location service.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // meters
	Timestamp time.Time `json:"timestamp"`
}

// WorkLocation is a registered geofence center.
type WorkLocation struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
