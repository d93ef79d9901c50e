package qcodes

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/example/qsobot/pkg/models"
)

// ErrLoad marks a failure to produce any usable Q-code list
var ErrLoad = errors.New("qcodes load failure")

// codePattern is the shape of a valid Q-code: Q followed by 2-4 capitals
var codePattern = regexp.MustCompile(`^Q[A-Z]{2,4}$`)

//go:embed seed/qcodes.json
var seedData []byte

// Parse decodes and validates a JSON array of Q-code records. Records with
// a malformed code or an empty meaning are rejected; a single bad record
// fails the whole document so a half-broken file never silently shrinks
// the study list.
func Parse(data []byte) ([]models.QCode, error) {
	var codes []models.QCode
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode qcodes: %v", err)
	}
	for i, c := range codes {
		if !codePattern.MatchString(c.Code) {
			return nil, fmt.Errorf("record %d: invalid code %q", i, c.Code)
		}
		if c.Meaning == "" {
			return nil, fmt.Errorf("record %d (%s): empty meaning", i, c.Code)
		}
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("empty qcode list")
	}
	return codes, nil
}

// Load reads the Q-code list from path, falling back to the embedded seed
// list when the file is missing or malformed. Path may be empty to use the
// seed list directly.
func Load(path string) ([]models.QCode, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			codes, perr := Parse(data)
			if perr == nil {
				return codes, nil
			}
			log.Printf("Invalid qcodes file %s, falling back to seed data: %v", path, perr)
		} else {
			log.Printf("Could not read qcodes file %s, falling back to seed data: %v", path, err)
		}
	}

	codes, err := Parse(seedData)
	if err != nil {
		return nil, fmt.Errorf("%w: seed data invalid: %v", ErrLoad, err)
	}
	return codes, nil
}

// Save writes a Q-code list to path as JSON, validating it first
func Save(path string, codes []models.QCode) error {
	for i, c := range codes {
		if !codePattern.MatchString(c.Code) {
			return fmt.Errorf("record %d: invalid code %q", i, c.Code)
		}
		if c.Meaning == "" {
			return fmt.Errorf("record %d (%s): empty meaning", i, c.Code)
		}
	}
	data, err := json.MarshalIndent(codes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode qcodes: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write qcodes file: %v", err)
	}
	return nil
}

// IsValidCode reports whether a string looks like a Q-code
func IsValidCode(code string) bool {
	return codePattern.MatchString(code)
}
