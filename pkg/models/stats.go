package models

// Stats holds the account-wide aggregate study statistics
type Stats struct {
	TotalReviews   int    `json:"total_reviews" db:"total_reviews"`
	CorrectAnswers int    `json:"correct_answers" db:"correct_answers"`
	StudiedToday   int    `json:"studied_today" db:"studied_today"`     // Reviews on the current calendar day
	CurrentStreak  int    `json:"current_streak" db:"current_streak"`   // Consecutive study days
	LastStudyDate  string `json:"last_study_date,omitempty" db:"last_study_date"` // YYYY-MM-DD, empty before first study
}
