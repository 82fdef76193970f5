package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/duelengine/pkg/models"
)

// EnergyRepository handles database operations for per-user energy state
type EnergyRepository struct{}

// NewEnergyRepository creates a new repository instance
func NewEnergyRepository() *EnergyRepository {
	return &EnergyRepository{}
}

// Get returns the stored energy state for a user, or nil if none exists yet.
func (r *EnergyRepository) Get(userID int64) (*models.EnergyState, error) {
	var state models.EnergyState
	err := DB.Get(&state, "SELECT * FROM energy_state WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get energy state: %v", err)
	}
	return &state, nil
}

// Upsert writes the energy state for a user.
func (r *EnergyRepository) Upsert(state *models.EnergyState) error {
	_, err := DB.Exec(`
		INSERT INTO energy_state (user_id, hearts, last_update)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			hearts = $2,
			last_update = $3`,
		state.UserID, state.Hearts, state.LastUpdate)
	if err != nil {
		return fmt.Errorf("failed to upsert energy state: %v", err)
	}
	return nil
}
