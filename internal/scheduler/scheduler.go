package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/qsobot/internal/database"
	"github.com/go-co-op/gocron"
)

// Default notification window
const (
	DefaultNotificationStartHour = 8  // No reminders before 8:00
	DefaultNotificationEndHour   = 22 // No reminders after 22:00
)

// Key under which the bot stores the chat subscribed to reminders
const ReminderChatKey = "reminder_chat_id"

// Notifier interface for sending reminders
type Notifier interface {
	SendReminder(chatID int64, count int) error
}

// DueCounter reports how many cards are due for review
type DueCounter interface {
	DueCount(now time.Time) int
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	counter   DueCounter
	settings  *database.SettingsRepository
}

// New creates a new scheduler instance
func New(notifier Notifier, counter DueCounter) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
		counter:   counter,
		settings:  database.NewSettingsRepository(),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for due cards
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminder)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// notificationWindow returns the configured quiet-hours window
func notificationWindow() (int, int) {
	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}
	return startHour, endHour
}

// checkAndSendReminder sends a reminder to the subscribed chat when cards
// are due for review
func (s *Scheduler) checkAndSendReminder() {
	now := time.Now()
	startHour, endHour := notificationWindow()

	currentHour := now.Hour()
	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminder",
			currentHour, startHour, endHour)
		return
	}

	chatIDStr := s.settings.GetSetting(ReminderChatKey, "")
	if chatIDStr == "" {
		// Nobody subscribed
		return
	}
	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		log.Printf("Invalid reminder chat id %q: %v", chatIDStr, err)
		return
	}

	count := s.counter.DueCount(now)
	if count == 0 {
		return
	}

	if err := s.notifier.SendReminder(chatID, count); err != nil {
		log.Printf("Error sending reminder to chat %d: %v", chatID, err)
	}
}

// RunManualCheck forces a reminder check for a specific chat
func (s *Scheduler) RunManualCheck(chatID int64) error {
	count := s.counter.DueCount(time.Now())
	if count > 0 {
		return s.notifier.SendReminder(chatID, count)
	}
	return nil
}
