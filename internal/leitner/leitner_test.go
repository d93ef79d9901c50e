package leitner

import (
	"testing"
	"time"

	"github.com/example/qsobot/pkg/models"
)

var baseTime = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

// --- box transitions ---

func TestNextStateCorrectAdvancesOneBox(t *testing.T) {
	for box := 0; box < NumBoxes-1; box++ {
		state := models.CardState{Code: "QRM", Box: box}
		next := NextState(state, true, baseTime)
		if next.Box != box+1 {
			t.Errorf("correct from box %d: got box %d, want %d", box, next.Box, box+1)
		}
	}
}

func TestNextStateCorrectCapsAtLastBox(t *testing.T) {
	state := models.CardState{Code: "QRM", Box: NumBoxes - 1}
	next := NextState(state, true, baseTime)
	if next.Box != NumBoxes-1 {
		t.Errorf("correct from last box: got box %d, want %d", next.Box, NumBoxes-1)
	}
}

func TestNextStateWrongResetsToBoxZero(t *testing.T) {
	for box := 0; box < NumBoxes; box++ {
		state := models.CardState{Code: "QTH", Box: box}
		next := NextState(state, false, baseTime)
		if next.Box != 0 {
			t.Errorf("wrong from box %d: got box %d, want 0", box, next.Box)
		}
	}
}

func TestNextStateClampsCorruptedBox(t *testing.T) {
	next := NextState(models.CardState{Code: "QRZ", Box: 42}, true, baseTime)
	if next.Box != NumBoxes-1 {
		t.Errorf("corrupted box 42 after correct: got %d, want %d", next.Box, NumBoxes-1)
	}
	next = NextState(models.CardState{Code: "QRZ", Box: -3}, false, baseTime)
	if next.Box != 0 {
		t.Errorf("corrupted box -3 after wrong: got %d, want 0", next.Box)
	}
}

// --- due dates ---

func TestNextStateDueDateUsesBoxInterval(t *testing.T) {
	tests := []struct {
		box      int
		wantDays int
	}{
		{0, 1},  // correct from box 0 -> box 1, 1 day
		{1, 3},  // box 2, 3 days
		{2, 7},  // box 3, 7 days
		{3, 14}, // box 4, 14 days
		{4, 14}, // stays in box 4
	}
	for _, tt := range tests {
		next := NextState(models.CardState{Code: "QSL", Box: tt.box}, true, baseTime)
		want := baseTime.AddDate(0, 0, tt.wantDays)
		if !next.DueAt.Equal(want) {
			t.Errorf("box %d correct: due %v, want %v", tt.box, next.DueAt, want)
		}
	}
}

func TestNextStateWrongIsDueImmediately(t *testing.T) {
	next := NextState(models.CardState{Code: "QSB", Box: 3}, false, baseTime)
	if !next.DueAt.Equal(baseTime) {
		t.Errorf("wrong answer: due %v, want %v", next.DueAt, baseTime)
	}
	if !IsDue(next, baseTime) {
		t.Error("card reset to box 0 should be due immediately")
	}
}

func TestNextStateCalendarDayArithmetic(t *testing.T) {
	// A late-night review still lands on the next calendar day, even
	// across a DST transition.
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 2026-03-28 23:30 local, the night before the spring-forward day
	lateNight := time.Date(2026, 3, 28, 23, 30, 0, 0, warsaw)
	next := NextState(models.CardState{Code: "QRN", Box: 0}, true, lateNight)
	if next.DueAt.Day() != 29 || next.DueAt.Hour() != 23 {
		t.Errorf("due at %v, want 2026-03-29 23:30 local", next.DueAt)
	}
}

// --- counters ---

func TestNextStateCounters(t *testing.T) {
	state := models.CardState{Code: "QRM", Box: 1, ReviewCount: 4, CorrectCount: 3}

	next := NextState(state, true, baseTime)
	if next.ReviewCount != 5 || next.CorrectCount != 4 {
		t.Errorf("after correct: reviews=%d correct=%d, want 5 and 4", next.ReviewCount, next.CorrectCount)
	}

	next = NextState(state, false, baseTime)
	if next.ReviewCount != 5 || next.CorrectCount != 3 {
		t.Errorf("after wrong: reviews=%d correct=%d, want 5 and 3", next.ReviewCount, next.CorrectCount)
	}

	if next.LastReviewedAt == nil || !next.LastReviewedAt.Equal(baseTime) {
		t.Errorf("LastReviewedAt = %v, want %v", next.LastReviewedAt, baseTime)
	}
}

func TestInitialState(t *testing.T) {
	state := InitialState("QTH", baseTime)
	if state.Box != 0 || state.ReviewCount != 0 || state.CorrectCount != 0 {
		t.Errorf("unexpected initial state: %+v", state)
	}
	if !IsDue(state, baseTime) {
		t.Error("new card should be due immediately")
	}
	if state.LastReviewedAt != nil {
		t.Error("new card should have no last review time")
	}
}

// --- due queries ---

func TestIsDueBoundary(t *testing.T) {
	state := models.CardState{Code: "QRM", DueAt: baseTime}
	if !IsDue(state, baseTime) {
		t.Error("card due exactly now should be due")
	}
	if IsDue(state, baseTime.Add(-time.Second)) {
		t.Error("card due in one second should not be due yet")
	}
	if !IsDue(state, baseTime.Add(time.Second)) {
		t.Error("card due one second ago should be due")
	}
}

func TestFilterAndCountDue(t *testing.T) {
	states := []models.CardState{
		{Code: "QRA", DueAt: baseTime.Add(-time.Hour)},
		{Code: "QRB", DueAt: baseTime.Add(time.Hour)},
		{Code: "QRG", DueAt: baseTime},
	}
	if got := DueCount(states, baseTime); got != 2 {
		t.Errorf("DueCount = %d, want 2", got)
	}
	due := FilterDue(states, baseTime)
	if len(due) != 2 || due[0].Code != "QRA" || due[1].Code != "QRG" {
		t.Errorf("FilterDue = %v", due)
	}
}

func TestSortByDue(t *testing.T) {
	states := []models.CardState{
		{Code: "QRB", DueAt: baseTime.Add(time.Hour)},
		{Code: "QRA", DueAt: baseTime.Add(-time.Hour)},
		{Code: "QRG", DueAt: baseTime},
	}
	sorted := SortByDue(states)
	want := []string{"QRA", "QRG", "QRB"}
	for i, code := range want {
		if sorted[i].Code != code {
			t.Fatalf("sorted order = %v, want %v", sorted, want)
		}
	}
	// Input must be untouched
	if states[0].Code != "QRB" {
		t.Error("SortByDue modified its input")
	}
}

// --- accuracy ---

func TestAccuracy(t *testing.T) {
	tests := []struct {
		reviews, correct, want int
	}{
		{0, 0, 0},
		{1, 1, 100},
		{2, 1, 50},
		{3, 1, 33},
		{3, 2, 67},
	}
	for _, tt := range tests {
		state := models.CardState{ReviewCount: tt.reviews, CorrectCount: tt.correct}
		if got := Accuracy(state); got != tt.want {
			t.Errorf("Accuracy(%d/%d) = %d, want %d", tt.correct, tt.reviews, got, tt.want)
		}
	}
}

// --- labels ---

func TestBoxNames(t *testing.T) {
	want := []string{"New", "Learning", "Review", "Mastered", "Completed"}
	for box, name := range want {
		if got := BoxName(box); got != name {
			t.Errorf("BoxName(%d) = %q, want %q", box, got, name)
		}
	}
	if got := BoxName(99); got != "Completed" {
		t.Errorf("BoxName(99) = %q, want clamp to %q", got, "Completed")
	}
}

func TestIntervalDays(t *testing.T) {
	want := []int{0, 1, 3, 7, 14}
	for box, days := range want {
		if got := IntervalDays(box); got != days {
			t.Errorf("IntervalDays(%d) = %d, want %d", box, got, days)
		}
	}
}

func TestNextReviewText(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{-time.Hour, "Due now"},
		{0, "Due now"},
		{500 * time.Microsecond, "Due now"},
		{12 * time.Hour, "Tomorrow"},
		{24 * time.Hour, "Tomorrow"},
		{25 * time.Hour, "In 2 days"},
		{3 * 24 * time.Hour, "In 3 days"},
		{7 * 24 * time.Hour, "In 1 week"},
		{10 * 24 * time.Hour, "In 1 week"},
		{14 * 24 * time.Hour, "In 2 weeks"},
	}
	for _, tt := range tests {
		if got := NextReviewText(baseTime.Add(tt.offset), baseTime); got != tt.want {
			t.Errorf("NextReviewText(+%v) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}
