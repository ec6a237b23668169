package model

import "time"

// RollRecord is an immutable result of a single roll within a room
type RollRecord struct {
	ID                string    `json:"roll_id"`
	PlayerID          PlayerID  `json:"player_id"`
	PlayerName        string    `json:"player_name"`
	Formula           string    `json:"formula"`
	IndividualResults []int     `json:"individual_results"` // one entry per die, in draw order
	Modifier          int       `json:"modifier"`           // total minus the sum of individual results
	Total             int       `json:"total"`
	Timestamp         time.Time `json:"timestamp"`
	DCPass            *bool     `json:"dc_pass"`
}
