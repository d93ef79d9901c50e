package bot

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/qsobot/internal/database"
	"github.com/example/qsobot/internal/excel"
	"github.com/example/qsobot/internal/leitner"
	"github.com/example/qsobot/internal/phonetic"
	"github.com/example/qsobot/internal/qcodes"
	"github.com/example/qsobot/internal/scheduler"
	"github.com/example/qsobot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Constants for callback data
const (
	callbackMainMenu     = "main_menu"
	callbackMenuStudy    = "menu_study"
	callbackMenuSpell    = "menu_spell"
	callbackMenuStats    = "menu_stats"
	callbackMenuReset    = "menu_reset"
	callbackStudyReveal  = "study_reveal"
	callbackStudyCorrect = "study_correct"
	callbackStudyWrong   = "study_wrong"
	callbackStudyEnd     = "study_end"
	callbackSpellReveal  = "spell_reveal"
	callbackSpellNext    = "spell_next"
	callbackSpellNATO    = "spell_alphabet_nato"
	callbackSpellPolish  = "spell_alphabet_polish"
	callbackResetConfirm = "reset_confirm"
	callbackResetCancel  = "reset_cancel"
)

// Setting key for the learner's preferred spelling alphabet
const alphabetSettingKey = "alphabet"

// handleUpdate handles a single incoming update from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	if update.Message.IsCommand() {
		b.handleCommand(update.Message)
		return
	}
	b.handleText(update.Message)
}

// handleCommand dispatches bot commands
func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "menu":
		b.showMainMenu(message.Chat.ID)
	case "study":
		b.startStudySession(message.Chat.ID)
	case "spell":
		b.startSpellSession(message.Chat.ID)
	case "stats":
		b.handleStats(message.Chat.ID)
	case "reset":
		b.handleReset(message.Chat.ID)
	case "remind":
		b.handleRemind(message.Chat.ID)
	case "import":
		b.handleImport(message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /menu to show the main menu.")
		msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
		b.sendMessage(msg)
	}
}

// handleCallback dispatches inline keyboard presses
func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	// Telegram omits the originating message from callbacks older than
	// 48 hours; there is no chat to answer into
	if query.Message == nil {
		return
	}

	// Acknowledge the press so the client stops its spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Error answering callback query: %v", err)
	}

	chatID := query.Message.Chat.ID

	switch query.Data {
	case callbackMainMenu:
		b.showMainMenu(chatID)
	case callbackMenuStudy:
		b.startStudySession(chatID)
	case callbackMenuSpell:
		b.startSpellSession(chatID)
	case callbackMenuStats:
		b.handleStats(chatID)
	case callbackMenuReset:
		b.handleReset(chatID)
	case callbackStudyReveal:
		b.revealCurrentCard(chatID)
	case callbackStudyCorrect:
		b.gradeCurrentCard(chatID, true)
	case callbackStudyWrong:
		b.gradeCurrentCard(chatID, false)
	case callbackStudyEnd:
		b.endStudySession(chatID)
	case callbackSpellReveal:
		b.revealSpelling(chatID)
	case callbackSpellNext:
		b.nextSpellWord(chatID)
	case callbackSpellNATO:
		b.switchAlphabet(chatID, phonetic.AlphabetNATO)
	case callbackSpellPolish:
		b.switchAlphabet(chatID, phonetic.AlphabetPolish)
	case callbackResetConfirm:
		b.handleResetConfirm(chatID)
	case callbackResetCancel:
		b.showMainMenu(chatID)
	}
}

// handleText routes free-text input to the chat's active drill
func (b *Bot) handleText(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	sess := b.sessions[chatID]
	if sess == nil {
		msg := tgbotapi.NewMessage(chatID, "Use /menu to pick a training mode first.")
		msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
		b.sendMessage(msg)
		return
	}

	switch sess.Mode {
	case modeStudy:
		b.gradeTypedMeaning(chatID, message.Text)
	case modeSpell:
		b.gradeSpellingAnswer(chatID, message.Text)
	}
}

func (b *Bot) mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📇 Q-code flashcards", CallbackData: callbackMenuStudy}},
		{{Text: "🔤 Phonetic spelling", CallbackData: callbackMenuSpell}},
		{{Text: "📊 Statistics", CallbackData: callbackMenuStats}},
		{{Text: "🗑 Reset progress", CallbackData: callbackMenuReset}},
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := "👋 Welcome to the amateur radio exam trainer!\n\n" +
		"I drill you on Q-codes with spaced repetition and on phonetic " +
		"spelling with the NATO and Polish alphabets.\n\n" +
		"🔹 How it works:\n" +
		"1. Study due flashcards with /study\n" +
		"2. Practice spelling with /spell\n" +
		"3. Track your progress with /stats\n" +
		"4. Get daily reminders with /remind"

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
	b.sendMessage(msg)
}

func (b *Bot) showMainMenu(chatID int64) {
	delete(b.sessions, chatID)
	msg := tgbotapi.NewMessage(chatID, "What would you like to practice?")
	msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
	b.sendMessage(msg)
}

// --- Flashcard drill ---

// startStudySession collects the due cards and shows the first one
func (b *Bot) startStudySession(chatID int64) {
	now := time.Now()
	states := b.progress.GetAll()

	codes, byCode := b.studyList()
	stateBy := make(map[string]models.CardState, len(states))
	var due []models.CardState
	for _, s := range states {
		if _, known := byCode[s.Code]; !known {
			continue
		}
		stateBy[s.Code] = s
		if leitner.IsDue(s, now) {
			due = append(due, s)
		}
	}
	// Codes never reviewed start in box 0, due immediately
	for _, c := range codes {
		if _, ok := stateBy[c.Code]; !ok {
			due = append(due, leitner.InitialState(c.Code, now))
		}
	}

	if len(due) == 0 {
		text := "🎉 All caught up, nothing is due right now."
		if upcoming := leitner.SortByDue(states); len(upcoming) > 0 {
			text += fmt.Sprintf("\nNext review: %s.", leitner.NextReviewText(upcoming[0].DueAt, now))
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
		b.sendMessage(msg)
		return
	}

	due = leitner.SortByDue(due)
	if len(due) > b.config.CardsPerSession {
		due = due[:b.config.CardsPerSession]
	}

	queue := make([]string, len(due))
	for i, s := range due {
		queue[i] = s.Code
	}

	b.sessions[chatID] = &session{
		Mode:  modeStudy,
		Queue: queue,
	}
	b.showCurrentCard(chatID)
}

func (b *Bot) showCurrentCard(chatID int64) {
	sess := b.sessions[chatID]
	if sess == nil || sess.Idx >= len(sess.Queue) {
		return
	}
	code := sess.Queue[sess.Idx]
	sess.Revealed = false

	text := fmt.Sprintf("Card %d/%d\n\n📇 *%s*\n\nType the meaning, or reveal the answer.",
		sess.Idx+1, len(sess.Queue), code)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "💡 Show answer", CallbackData: callbackStudyReveal}},
		{{Text: "🏁 End session", CallbackData: callbackStudyEnd}},
	})
	b.sendMessage(msg)
}

func (b *Bot) revealCurrentCard(chatID int64) {
	sess := b.sessions[chatID]
	if sess == nil || sess.Mode != modeStudy || sess.Idx >= len(sess.Queue) {
		return
	}
	code := sess.Queue[sess.Idx]
	sess.Revealed = true

	_, byCode := b.studyList()
	text := fmt.Sprintf("📇 *%s*\n\n%s\n\nDid you know it?", code, byCode[code].Meaning)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{
			{Text: "✅ I knew it", CallbackData: callbackStudyCorrect},
			{Text: "❌ I didn't", CallbackData: callbackStudyWrong},
		},
	})
	b.sendMessage(msg)
}

// gradeTypedMeaning grades a typed answer against the card's meaning
// using the normalized text comparison
func (b *Bot) gradeTypedMeaning(chatID int64, answer string) {
	sess := b.sessions[chatID]
	if sess == nil || sess.Idx >= len(sess.Queue) {
		return
	}
	if sess.Revealed {
		// Answer is already on screen, grading a typed one now would be
		// self-marking; the buttons decide this card
		b.sendMessage(tgbotapi.NewMessage(chatID, "Use the buttons to grade this card."))
		return
	}
	code := sess.Queue[sess.Idx]
	_, byCode := b.studyList()
	meaning := byCode[code].Meaning
	correct := phonetic.TextsEqual(answer, meaning)

	verdict := "❌ Not quite."
	if correct {
		verdict = "✅ Correct!"
	}
	text := fmt.Sprintf("%s\n\n📇 *%s* — %s", verdict, code, meaning)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.sendMessage(msg)

	b.gradeCurrentCard(chatID, correct)
}

// gradeCurrentCard applies a review outcome to the current card, persists
// the new state and advances the session
func (b *Bot) gradeCurrentCard(chatID int64, wasCorrect bool) {
	sess := b.sessions[chatID]
	if sess == nil || sess.Mode != modeStudy || sess.Idx >= len(sess.Queue) {
		return
	}
	code := sess.Queue[sess.Idx]
	now := time.Now()

	state := b.progress.Get(code)
	if state == nil {
		initial := leitner.InitialState(code, now)
		state = &initial
	}
	next := leitner.NextState(*state, wasCorrect, now)

	var warn string
	if err := b.progress.Put(&next); err != nil {
		log.Printf("Error saving card state: %v", err)
		if errors.Is(err, database.ErrPersistence) {
			warn = "\n⚠️ Progress could not be saved."
		}
	}
	if err := b.stats.RecordReview(wasCorrect, now); err != nil {
		log.Printf("Error recording review: %v", err)
		if warn == "" && errors.Is(err, database.ErrPersistence) {
			warn = "\n⚠️ Statistics could not be saved."
		}
	}

	sess.Total++
	if wasCorrect {
		sess.Correct++
	}
	if warn != "" {
		b.sendMessage(tgbotapi.NewMessage(chatID, strings.TrimSpace(warn)))
	}

	sess.Idx++
	if sess.Idx >= len(sess.Queue) {
		b.endStudySession(chatID)
		return
	}
	b.showCurrentCard(chatID)
}

func (b *Bot) endStudySession(chatID int64) {
	sess := b.sessions[chatID]
	delete(b.sessions, chatID)

	text := "Session finished."
	if sess != nil && sess.Total > 0 {
		text = fmt.Sprintf("🏁 Session finished: %d/%d correct.", sess.Correct, sess.Total)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
	b.sendMessage(msg)
}

// --- Phonetic spelling drill ---

func (b *Bot) startSpellSession(chatID int64) {
	alphabet := b.settings.GetSetting(alphabetSettingKey, b.config.DefaultAlphabet)
	b.sessions[chatID] = &session{
		Mode:     modeSpell,
		Alphabet: alphabet,
	}
	b.nextSpellWord(chatID)
}

func (b *Bot) spellKeyboard() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "💡 Reveal", CallbackData: callbackSpellReveal},
			{Text: "⏭ New word", CallbackData: callbackSpellNext},
		},
		{
			{Text: "🌐 NATO", CallbackData: callbackSpellNATO},
			{Text: "🇵🇱 Polish", CallbackData: callbackSpellPolish},
		},
		{{Text: "⬅️ Menu", CallbackData: callbackMainMenu}},
	}
}

func (b *Bot) nextSpellWord(chatID int64) {
	sess := b.sessions[chatID]
	if sess == nil || sess.Mode != modeSpell {
		return
	}
	sess.Word = phonetic.RandomWord(phonetic.SampleWords(sess.Alphabet))

	text := fmt.Sprintf("🔤 Spell *%s* using the %s alphabet.\n\nType the code words separated by spaces.",
		sess.Word, sess.Alphabet)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = createKeyboard(b.spellKeyboard())
	b.sendMessage(msg)
}

func (b *Bot) revealSpelling(chatID int64) {
	sess := b.sessions[chatID]
	if sess == nil || sess.Mode != modeSpell || sess.Word == "" {
		return
	}
	alphabet := phonetic.AlphabetByName(sess.Alphabet)
	text := fmt.Sprintf("*%s*: %s", sess.Word, phonetic.PhoneticSpelling(sess.Word, alphabet))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = createKeyboard(b.spellKeyboard())
	b.sendMessage(msg)
}

func (b *Bot) gradeSpellingAnswer(chatID int64, answer string) {
	sess := b.sessions[chatID]
	if sess == nil || sess.Mode != modeSpell || sess.Word == "" {
		return
	}
	alphabet := phonetic.AlphabetByName(sess.Alphabet)
	result := phonetic.GradeSpelling(answer, sess.Word, alphabet)

	sess.Total++
	if result.Correct {
		sess.Correct++
	}

	var text string
	if result.Correct {
		text = fmt.Sprintf("✅ Correct!\n\n*%s*: %s", sess.Word, strings.Join(result.Expected, " "))
	} else {
		text = fmt.Sprintf("❌ Not quite (%d errors).\n\nExpected: %s\nYou sent: %s",
			result.Errors, strings.Join(result.Expected, " "), strings.Join(result.Provided, " "))
	}
	text += fmt.Sprintf("\n\nScore: %d/%d", sess.Correct, sess.Total)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = createKeyboard(b.spellKeyboard())
	b.sendMessage(msg)
}

func (b *Bot) switchAlphabet(chatID int64, name string) {
	sess := b.sessions[chatID]
	if sess == nil || sess.Mode != modeSpell {
		b.startSpellSession(chatID)
		sess = b.sessions[chatID]
	}
	sess.Alphabet = name
	if err := b.settings.SaveSetting(alphabetSettingKey, name); err != nil {
		log.Printf("Error saving alphabet setting: %v", err)
	}
	b.nextSpellWord(chatID)
}

// --- Statistics ---

func (b *Bot) handleStats(chatID int64) {
	now := time.Now()
	stats := b.stats.GetStats()
	states := b.progress.GetAll()

	accuracy := 0
	if stats.TotalReviews > 0 {
		accuracy = stats.CorrectAnswers * 100 / stats.TotalReviews
	}

	boxCounts := make([]int, leitner.NumBoxes)
	for _, s := range states {
		box := s.Box
		if box < 0 || box >= leitner.NumBoxes {
			// Corrupted row; count it where the scheduler would put it
			box = 0
		}
		boxCounts[box]++
	}

	var sb strings.Builder
	sb.WriteString("📊 *Your progress*\n\n")
	sb.WriteString(fmt.Sprintf("Total reviews: %d\n", stats.TotalReviews))
	sb.WriteString(fmt.Sprintf("Accuracy: %d%%\n", accuracy))
	sb.WriteString(fmt.Sprintf("Studied today: %d\n", stats.StudiedToday))
	sb.WriteString(fmt.Sprintf("Day streak: %d 🔥\n", stats.CurrentStreak))
	sb.WriteString(fmt.Sprintf("Due now: %d\n\n", b.DueCount(now)))

	sb.WriteString("📦 Boxes:\n")
	for box, count := range boxCounts {
		sb.WriteString(fmt.Sprintf("  %s: %d\n", leitner.BoxName(box), count))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
	b.sendMessage(msg)
}

// --- Reset ---

func (b *Bot) handleReset(chatID int64) {
	text := "⚠️ This erases all flashcard progress, statistics and settings. Are you sure?"
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{
			{Text: "🗑 Yes, erase everything", CallbackData: callbackResetConfirm},
			{Text: "↩️ Cancel", CallbackData: callbackResetCancel},
		},
	})
	b.sendMessage(msg)
}

func (b *Bot) handleResetConfirm(chatID int64) {
	delete(b.sessions, chatID)
	text := "✅ All progress has been erased."
	if err := database.ClearAll(); err != nil {
		log.Printf("Error clearing data: %v", err)
		text = "⚠️ Could not erase progress, please try again."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
	b.sendMessage(msg)
}

// --- Reminders ---

func (b *Bot) handleRemind(chatID int64) {
	current := b.settings.GetSetting(scheduler.ReminderChatKey, "")
	me := strconv.FormatInt(chatID, 10)

	var text string
	if current == me {
		if err := b.settings.DeleteSetting(scheduler.ReminderChatKey); err != nil {
			log.Printf("Error deleting reminder setting: %v", err)
		}
		text = "🔕 Reminders disabled."
	} else {
		if err := b.settings.SaveSetting(scheduler.ReminderChatKey, me); err != nil {
			log.Printf("Error saving reminder setting: %v", err)
			text = "⚠️ Could not enable reminders, please try again."
		} else {
			text = "🔔 Reminders enabled. I will ping you when cards are due."
		}
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(b.mainMenuButtons())
	b.sendMessage(msg)
}

// --- Import ---

func (b *Bot) handleImport(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	path := strings.TrimSpace(message.CommandArguments())
	if path == "" {
		b.sendMessage(tgbotapi.NewMessage(chatID,
			"Usage: /import <path to .xlsx or .csv file on the bot host>\n"+
				"Columns: A = code, B = meaning, first row is a header."))
		return
	}

	listPath := os.Getenv("QCODES_FILE")
	if listPath == "" {
		listPath = "data/qcodes.json"
	}

	config := excel.DefaultImportConfig()
	config.FilePath = path

	result, err := excel.ImportQCodes(config, listPath)
	if err != nil {
		log.Printf("Import failed: %v", err)
		b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("⚠️ Import failed: %v", err)))
		return
	}

	// Reload the study list so new codes are drillable right away
	if codes, err := qcodes.Load(listPath); err == nil {
		b.setStudyList(codes)
	} else {
		log.Printf("Error reloading qcodes after import: %v", err)
	}

	text := fmt.Sprintf("📥 Import finished: %d rows processed, %d added, %d updated, %d skipped.",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf("\n⚠️ %d rows had problems:\n%s",
			len(result.Errors), strings.Join(result.Errors, "\n"))
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}
