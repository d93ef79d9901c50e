package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/example/qsobot/internal/database"
	"github.com/example/qsobot/internal/leitner"
	"github.com/example/qsobot/internal/scheduler"
	"github.com/example/qsobot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Session modes
const (
	modeStudy = "study"
	modeSpell = "spell"
)

// session holds the state of one chat's ongoing drill
type session struct {
	Mode string

	// Study mode: queue of due codes
	Queue    []string
	Idx      int
	Revealed bool

	// Spell mode
	Word     string
	Alphabet string

	// Per-session score shown when the drill ends
	Correct int
	Total   int
}

// Bot represents the Telegram bot application
type Bot struct {
	api   *tgbotapi.BotAPI
	token string

	// mu guards codes and byCode: /import swaps them on the update-loop
	// goroutine while the reminder scheduler reads them via DueCount
	mu     sync.RWMutex
	codes  []models.QCode
	byCode map[string]models.QCode

	progress         *database.ProgressRepository
	stats            *database.StatsRepository
	settings         *database.SettingsRepository
	scheduler        *scheduler.Scheduler
	schedulerEnabled bool
	sessions         map[int64]*session
	config           *BotConfig
}

// New creates a new bot instance serving the given Q-code study list
func New(codes []models.QCode) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	if len(codes) == 0 {
		return nil, fmt.Errorf("empty Q-code study list")
	}

	schedulerEnabled := os.Getenv("ENABLE_SCHEDULER") != "false"

	b := &Bot{
		token:            token,
		progress:         database.NewProgressRepository(),
		stats:            database.NewStatsRepository(),
		settings:         database.NewSettingsRepository(),
		schedulerEnabled: schedulerEnabled,
		sessions:         make(map[int64]*session),
		config:           DefaultConfig(),
	}
	b.setStudyList(codes)
	return b, nil
}

// studyList returns a consistent snapshot of the Q-code list and its
// lookup map
func (b *Bot) studyList() ([]models.QCode, map[string]models.QCode) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.codes, b.byCode
}

// setStudyList replaces the Q-code list. The slice and map are never
// mutated after publication, only swapped wholesale.
func (b *Bot) setStudyList(codes []models.QCode) {
	byCode := make(map[string]models.QCode, len(codes))
	for _, c := range codes {
		byCode[c.Code] = c
	}
	b.mu.Lock()
	b.codes = codes
	b.byCode = byCode
	b.mu.Unlock()
}

// Start connects to Telegram and processes updates until the context is
// cancelled
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}

	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	if b.schedulerEnabled {
		b.scheduler = scheduler.New(b, b)
		b.scheduler.Start()
		log.Println("Reminder scheduler started")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	log.Println("Bot stopped")
}

// DueCount implements scheduler.DueCounter. Codes that were never
// reviewed are due immediately, same as stored cards whose due date has
// passed.
func (b *Bot) DueCount(now time.Time) int {
	codes, byCode := b.studyList()
	states := b.progress.GetAll()
	seen := make(map[string]bool, len(states))
	count := 0
	for _, s := range states {
		seen[s.Code] = true
		if _, known := byCode[s.Code]; !known {
			// Stale state for a code no longer in the study list
			continue
		}
		if leitner.IsDue(s, now) {
			count++
		}
	}
	for _, c := range codes {
		if !seen[c.Code] {
			count++
		}
	}
	return count
}

// SendReminder implements scheduler.Notifier
func (b *Bot) SendReminder(chatID int64, count int) error {
	text := fmt.Sprintf("📻 You have %d Q-codes due for review! Use /study to start.", count)
	if count == 1 {
		text = "📻 You have 1 Q-code due for review! Use /study to start."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending reminder to chat %d: %v", chatID, err)
	}
	return err
}

// sendMessage sends a message and logs any delivery failure
func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending message: %v", err)
	}
	return err
}
