package types

import "time"

// IconRecord is one entry of the in-memory app-icon registry.
// At most one record is active across the whole registry.
type IconRecord struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	URL         string    `json:"url"`
	IsActive    bool      `json:"isActive"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// IconCreate is the request body for registering a new icon.
type IconCreate struct {
	ID          string `json:"id" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	URL         string `json:"url" binding:"required"`
}

// IconActivate is the request body for switching the active icon.
type IconActivate struct {
	ID string `json:"id" binding:"required"`
}
