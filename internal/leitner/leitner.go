package leitner

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/example/qsobot/pkg/models"
)

// Leitner system with 5 boxes (0-4).
// Box 0 holds new and failed cards (review immediately), box 4 the most
// mastered ones. A correct answer moves a card one box up, a wrong answer
// sends it back to box 0.

// NumBoxes is the number of Leitner boxes
const NumBoxes = 5

// Review intervals in days per box
var boxIntervals = [NumBoxes]int{0, 1, 3, 7, 14}

// Human-readable box names
var boxNames = [NumBoxes]string{"New", "Learning", "Review", "Mastered", "Completed"}

// clampBox forces a box index into the valid range. An out-of-range index
// means corrupted state, so it is logged rather than silently accepted.
func clampBox(box int) int {
	if box < 0 {
		log.Printf("leitner: box index %d out of range, clamping to 0", box)
		return 0
	}
	if box >= NumBoxes {
		log.Printf("leitner: box index %d out of range, clamping to %d", box, NumBoxes-1)
		return NumBoxes - 1
	}
	return box
}

// IntervalDays returns the review interval in days for the given box
func IntervalDays(box int) int {
	return boxIntervals[clampBox(box)]
}

// BoxName returns the display name for the given box
func BoxName(box int) string {
	return boxNames[clampBox(box)]
}

// InitialState returns the state for a card that has never been reviewed:
// box 0, due immediately, zero counters
func InitialState(code string, now time.Time) models.CardState {
	return models.CardState{
		Code:  code,
		Box:   0,
		DueAt: now,
	}
}

// NextState computes the card state after a review. Correct answers advance
// the card one box (capped at the last box), wrong answers reset it to box 0.
// The due date moves forward by the new box's interval in calendar days, so
// reviewing late at night still lands the card on the right day.
func NextState(current models.CardState, wasCorrect bool, now time.Time) models.CardState {
	newBox := 0
	if wasCorrect {
		newBox = clampBox(current.Box) + 1
		if newBox > NumBoxes-1 {
			newBox = NumBoxes - 1
		}
	}

	reviewed := now
	next := current
	next.Box = newBox
	next.DueAt = now.AddDate(0, 0, boxIntervals[newBox])
	next.LastReviewedAt = &reviewed
	next.ReviewCount = current.ReviewCount + 1
	next.CorrectCount = current.CorrectCount
	if wasCorrect {
		next.CorrectCount++
	}
	return next
}

// IsDue reports whether the card's scheduled review time has arrived
func IsDue(state models.CardState, now time.Time) bool {
	return !now.Before(state.DueAt)
}

// DueCount returns how many of the given cards are due for review
func DueCount(states []models.CardState, now time.Time) int {
	count := 0
	for _, s := range states {
		if IsDue(s, now) {
			count++
		}
	}
	return count
}

// FilterDue returns only the cards that are due for review
func FilterDue(states []models.CardState, now time.Time) []models.CardState {
	var due []models.CardState
	for _, s := range states {
		if IsDue(s, now) {
			due = append(due, s)
		}
	}
	return due
}

// SortByDue returns a copy of the cards ordered by due date, earliest first
func SortByDue(states []models.CardState) []models.CardState {
	sorted := make([]models.CardState, len(states))
	copy(sorted, states)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueAt.Before(sorted[j].DueAt)
	})
	return sorted
}

// Accuracy returns the card's correct-answer rate as a whole percent.
// A card that has never been reviewed has an accuracy of 0.
func Accuracy(state models.CardState) int {
	if state.ReviewCount == 0 {
		return 0
	}
	return int(math.Round(float64(state.CorrectCount) / float64(state.ReviewCount) * 100))
}

// NextReviewText describes how far away the card's due date is.
// The day count is rounded up from the exact difference, so a card due
// 25 hours from now reads "In 2 days" rather than "Tomorrow".
func NextReviewText(dueAt, now time.Time) string {
	diff := dueAt.Sub(now)
	if diff <= 0 {
		return "Due now"
	}

	days := int(math.Ceil(float64(diff.Milliseconds()) / float64(24*time.Hour.Milliseconds())))
	if days < 1 {
		// Sub-millisecond remainder, not worth a countdown
		return "Due now"
	}
	switch {
	case days == 1:
		return "Tomorrow"
	case days < 7:
		return fmt.Sprintf("In %d days", days)
	default:
		weeks := days / 7
		if weeks > 1 {
			return fmt.Sprintf("In %d weeks", weeks)
		}
		return "In 1 week"
	}
}
