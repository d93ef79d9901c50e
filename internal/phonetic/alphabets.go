package phonetic

import (
	"math/rand"
	"strings"
	"time"
)

// The global rand source keeps its deterministic seed under this
// module's go directive, which would replay the same word order after
// every restart; draws come from a time-seeded source instead.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// Alphabet names accepted by AlphabetByName
const (
	AlphabetNATO   = "NATO"
	AlphabetPolish = "POLISH"
)

// NATO is the NATO/ICAO phonetic alphabet
var NATO = map[rune]string{
	'A': "Alpha", 'B': "Bravo", 'C': "Charlie", 'D': "Delta",
	'E': "Echo", 'F': "Foxtrot", 'G': "Golf", 'H': "Hotel",
	'I': "India", 'J': "Juliett", 'K': "Kilo", 'L': "Lima",
	'M': "Mike", 'N': "November", 'O': "Oscar", 'P': "Papa",
	'Q': "Quebec", 'R': "Romeo", 'S': "Sierra", 'T': "Tango",
	'U': "Uniform", 'V': "Victor", 'W': "Whiskey", 'X': "X-ray",
	'Y': "Yankee", 'Z': "Zulu",
}

// Polish is the Polish phonetic alphabet used on amateur bands.
// Letters with diacritics other than Ł have no code word of their own;
// operators spell them with the base letter, so the map leaves them out.
var Polish = map[rune]string{
	'A': "Adam", 'B': "Barbara", 'C': "Celina", 'D': "Dorota",
	'E': "Edward", 'F': "Filip", 'G': "Gustaw", 'H': "Henryk",
	'I': "Irena", 'J': "Jadwiga", 'K': "Karol", 'L': "Leon",
	'Ł': "Łukasz", 'M': "Maria", 'N': "Natalia", 'O': "Olga",
	'P': "Paweł", 'R': "Roman", 'S': "Stefan", 'T': "Tadeusz",
	'U': "Urszula", 'V': "Violetta", 'W': "Wanda", 'X': "Xawery",
	'Y': "Ypsylon", 'Z': "Zygmunt",
}

// AlphabetByName resolves an alphabet name chosen in the UI.
// Unknown names fall back to NATO.
func AlphabetByName(name string) map[rune]string {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case AlphabetPolish:
		return Polish
	default:
		return NATO
	}
}

// Practice words for the spelling trainer
var sampleWordsEN = []string{
	"RADIO", "ANTENNA", "SIGNAL", "STATION", "MORSE",
	"BEACON", "DIPOLE", "REPEATER", "CONTEST", "FREQUENCY",
}

var sampleWordsPL = []string{
	"RADIO", "ANTENA", "STACJA", "FALA", "NADAJNIK",
	"SŁUCHAWKI", "ZASILACZ", "ŁADOWARKA", "KLUCZ", "PASMO",
}

// SampleWords returns practice words for the given alphabet name:
// Polish words for the Polish alphabet, English otherwise.
func SampleWords(alphabetName string) []string {
	if strings.ToUpper(strings.TrimSpace(alphabetName)) == AlphabetPolish {
		return sampleWordsPL
	}
	return sampleWordsEN
}

// RandomWord picks a random practice word from the list
func RandomWord(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return words[rng.Intn(len(words))]
}

// Shuffle returns a shuffled copy of the words (Fisher-Yates)
func Shuffle(words []string) []string {
	shuffled := make([]string, len(words))
	copy(shuffled, words)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
