package models

import "time"

// EnergyState is a user's current hearts balance. Created lazily at full
// capacity on first check and mutated only by the energy gate.
type EnergyState struct {
	UserID     int64     `json:"user_id" db:"user_id"`
	Hearts     int       `json:"hearts" db:"hearts"`
	LastUpdate time.Time `json:"last_update" db:"last_update"`
}
