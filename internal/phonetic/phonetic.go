package phonetic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text and removes combining diacritical marks,
// so Ó becomes O and Ż becomes Z.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// letterFolds maps letters that do not decompose under Unicode
// normalization to their plain counterparts. The Polish barred L keeps
// its stroke through NFD, so it needs an explicit entry.
var letterFolds = map[rune]rune{
	'Ł': 'L',
	'ł': 'l',
}

// Normalize canonicalizes free text for comparison: uppercase, diacritics
// stripped, whitespace runs collapsed to single spaces and trimmed.
// Normalize is idempotent.
func Normalize(text string) string {
	upper := strings.ToUpper(text)
	stripped, _, err := transform.String(stripMarks, upper)
	if err != nil {
		// Malformed input survives as-is; comparison degrades, not fails
		stripped = upper
	}
	folded := strings.Map(func(r rune) rune {
		if plain, ok := letterFolds[r]; ok {
			return plain
		}
		return r
	}, stripped)
	return strings.Join(strings.Fields(folded), " ")
}

// Tokenize splits normalized text on whitespace, dropping empty tokens
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}

// TextsEqual compares two strings ignoring case, diacritics and
// whitespace noise
func TextsEqual(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// TokenSequencesEqual reports whether two token sequences match pairwise.
// Order matters: no reordering tolerance.
func TokenSequencesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TextsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// SpelledLetter is one letter of a word with its phonetic code word
type SpelledLetter struct {
	Letter string `json:"letter"`
	Code   string `json:"code"`
	Found  bool   `json:"found"`
}

// SpellWord spells a word letter by letter using the given alphabet.
// Non-letter characters are discarded. Letters the alphabet does not
// cover yield a "?" code with Found=false; coverage gaps are expected
// and never an error.
func SpellWord(word string, alphabet map[rune]string) []SpelledLetter {
	var spelled []SpelledLetter
	for _, r := range strings.ToUpper(word) {
		if !unicode.IsLetter(r) {
			continue
		}
		code, found := alphabet[r]
		if !found {
			code = "?"
		}
		spelled = append(spelled, SpelledLetter{
			Letter: string(r),
			Code:   code,
			Found:  found,
		})
	}
	return spelled
}

// PhoneticSpelling returns the full phonetic spelling of a word as a
// single space-separated string
func PhoneticSpelling(word string, alphabet map[rune]string) string {
	spelled := SpellWord(word, alphabet)
	codes := make([]string, len(spelled))
	for i, s := range spelled {
		codes[i] = s.Code
	}
	return strings.Join(codes, " ")
}

// SpellingResult is the verdict on a learner's phonetic spelling attempt
type SpellingResult struct {
	Correct  bool     `json:"correct"`
	Expected []string `json:"expected"`
	Provided []string `json:"provided"`
	Errors   int      `json:"errors"`
}

// GradeSpelling checks the learner's phonetic spelling of a word against
// the expected code words. The error count is a simple position-wise
// mismatch count plus the length difference; it deliberately over-counts
// when tokens are shifted, since only the boolean verdict drives scoring.
func GradeSpelling(userInput, expectedWord string, alphabet map[rune]string) SpellingResult {
	spelled := SpellWord(expectedWord, alphabet)
	expected := make([]string, len(spelled))
	for i, s := range spelled {
		expected[i] = s.Code
	}
	provided := Tokenize(userInput)

	errors := len(expected) - len(provided)
	if errors < 0 {
		errors = -errors
	}
	overlap := len(expected)
	if len(provided) < overlap {
		overlap = len(provided)
	}
	for i := 0; i < overlap; i++ {
		if !TextsEqual(expected[i], provided[i]) {
			errors++
		}
	}

	return SpellingResult{
		Correct:  TokenSequencesEqual(expected, provided),
		Expected: expected,
		Provided: provided,
		Errors:   errors,
	}
}
