package model

import "time"

// PlayerID identifies a player within a room
type PlayerID string

// Player represents a room member
type Player struct {
	ID           PlayerID   `json:"player_id"`
	Name         string     `json:"name"` // sanitized, at most 20 characters
	Connected    bool       `json:"connected"`
	ConnectedAt  *time.Time `json:"connected_at"`
	LastActivity *time.Time `json:"last_activity"`
}
