package bot

import "github.com/example/qsobot/internal/phonetic"

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Maximum number of flashcards handed out per study session
	CardsPerSession int
	// Alphabet preselected in the spelling trainer
	DefaultAlphabet string
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		CardsPerSession: 10,
		DefaultAlphabet: phonetic.AlphabetNATO,
	}
}
