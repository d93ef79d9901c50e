package database

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/qsobot/pkg/models"
)

// dateLayout is how calendar dates (not timestamps) are stored
const dateLayout = "2006-01-02"

// statsMu serializes the read-modify-write span of RecordReview so two
// racing review events can never lose an increment or misclassify the
// study day.
var statsMu sync.Mutex

// StatsRepository handles database operations for aggregate statistics
type StatsRepository struct{}

// NewStatsRepository creates a new repository instance
func NewStatsRepository() *StatsRepository {
	return &StatsRepository{}
}

// GetStats returns the aggregate statistics, or all-zero defaults if
// nothing has ever been recorded. A failed read degrades to defaults.
func (r *StatsRepository) GetStats() models.Stats {
	var stats models.Stats
	err := DB.Get(&stats, `
		SELECT total_reviews, correct_answers, studied_today, current_streak, last_study_date
		FROM stats WHERE id = 1
	`)
	if err == sql.ErrNoRows {
		return models.Stats{}
	}
	if err != nil {
		log.Printf("Error getting stats: %v", err)
		return models.Stats{}
	}
	return stats
}

// SaveStats overwrites the aggregate statistics
func (r *StatsRepository) SaveStats(stats models.Stats) error {
	query := `
		INSERT INTO stats (
			id, total_reviews, correct_answers, studied_today, current_streak, last_study_date
		) VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			total_reviews = excluded.total_reviews,
			correct_answers = excluded.correct_answers,
			studied_today = excluded.studied_today,
			current_streak = excluded.current_streak,
			last_study_date = excluded.last_study_date
	`
	_, err := DB.Exec(query,
		stats.TotalReviews,
		stats.CorrectAnswers,
		stats.StudiedToday,
		stats.CurrentStreak,
		stats.LastStudyDate,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save stats: %v", ErrPersistence, err)
	}
	return nil
}

// RecordReview updates the aggregate statistics for one completed review.
// Total and correct counters always advance; the studied-today counter and
// the day streak depend on how the calendar date of now relates to the
// last recorded study day:
//   - same day: one more review today
//   - exactly the next day: new day, streak continues
//   - anything else (first study ever, a gap, a clock jump backwards):
//     new day, streak restarts at 1
func (r *StatsRepository) RecordReview(wasCorrect bool, now time.Time) error {
	statsMu.Lock()
	defer statsMu.Unlock()

	stats := r.GetStats()

	stats.TotalReviews++
	if wasCorrect {
		stats.CorrectAnswers++
	}

	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	switch stats.LastStudyDate {
	case today:
		stats.StudiedToday++
	case yesterday:
		stats.StudiedToday = 1
		stats.CurrentStreak++
	default:
		stats.StudiedToday = 1
		stats.CurrentStreak = 1
	}
	stats.LastStudyDate = today

	return r.SaveStats(stats)
}
