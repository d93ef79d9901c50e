package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/example/qsobot/pkg/models"
)

// ProgressRepository handles database operations for per-card study state
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// Get returns the stored state for a code, or nil if the card has never
// been reviewed. A failed read degrades to "never reviewed" rather than
// interrupting the study session.
func (r *ProgressRepository) Get(code string) *models.CardState {
	var state models.CardState
	err := DB.Get(&state, "SELECT * FROM card_states WHERE code = $1", code)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		log.Printf("Error getting card state for %s: %v", code, err)
		return nil
	}
	return &state
}

// Put stores the state for a card, overwriting any previous state
func (r *ProgressRepository) Put(state *models.CardState) error {
	query := `
		INSERT INTO card_states (
			code, box, due_at, last_reviewed_at, review_count, correct_count
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE SET
			box = excluded.box,
			due_at = excluded.due_at,
			last_reviewed_at = excluded.last_reviewed_at,
			review_count = excluded.review_count,
			correct_count = excluded.correct_count
	`
	_, err := DB.Exec(query,
		state.Code,
		state.Box,
		state.DueAt,
		state.LastReviewedAt,
		state.ReviewCount,
		state.CorrectCount,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save card state for %s: %v", ErrPersistence, state.Code, err)
	}
	return nil
}

// GetAll returns the state of every card ever reviewed. Order carries no
// meaning; callers sort as needed. A failed read degrades to an empty list.
func (r *ProgressRepository) GetAll() []models.CardState {
	var states []models.CardState
	err := DB.Select(&states, "SELECT * FROM card_states ORDER BY code ASC")
	if err != nil {
		log.Printf("Error getting card states: %v", err)
		return nil
	}
	return states
}

// Delete removes the state for a card. Deleting an absent card is not an error.
func (r *ProgressRepository) Delete(code string) error {
	_, err := DB.Exec("DELETE FROM card_states WHERE code = $1", code)
	if err != nil {
		return fmt.Errorf("%w: failed to delete card state for %s: %v", ErrPersistence, code, err)
	}
	return nil
}
