package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/qsobot/internal/qcodes"
	"github.com/example/qsobot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	CodeColumn    string // Column with the Q-code
	MeaningColumn string // Column with the meaning
	SheetName     string // Name of the sheet to import
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		CodeColumn:    "A",
		MeaningColumn: "B",
		SheetName:     "Sheet1",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportQCodes imports Q-codes from an Excel or CSV file and merges them
// into the study list at listPath. A bad row is recorded in the result and
// skipped; it never aborts the import.
func ImportQCodes(config ImportConfig, listPath string) (*ImportResult, error) {
	var rows [][]string
	var err error

	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config)
	}
	if err != nil {
		return nil, err
	}

	existing, err := qcodes.Load(listPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing qcodes: %v", err)
	}

	// Map codes to positions for update-in-place
	index := make(map[string]int)
	for i, c := range existing {
		index[c.Code] = i
	}

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	codeIdx := columnToIndex(config.CodeColumn)
	meaningIdx := columnToIndex(config.MeaningColumn)

	for i, row := range rows {
		rowNum := i + 1

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		var code, meaning string
		if codeIdx < len(row) {
			code = strings.ToUpper(strings.TrimSpace(row[codeIdx]))
		}
		if meaningIdx < len(row) {
			meaning = strings.TrimSpace(row[meaningIdx])
		}

		// Blank rows are padding, not errors
		if code == "" && meaning == "" {
			result.Skipped++
			continue
		}

		if !qcodes.IsValidCode(code) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid code %q", rowNum, code))
			continue
		}
		if meaning == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d (%s): empty meaning", rowNum, code))
			continue
		}

		if pos, ok := index[code]; ok {
			if existing[pos].Meaning != meaning {
				existing[pos].Meaning = meaning
				result.Updated++
			} else {
				result.Skipped++
			}
		} else {
			index[code] = len(existing)
			existing = append(existing, models.QCode{Code: code, Meaning: meaning})
			result.Created++
		}
	}

	if err := qcodes.Save(listPath, existing); err != nil {
		return nil, fmt.Errorf("failed to save merged qcodes: %v", err)
	}

	return result, nil
}

// readExcel returns all rows of the configured sheet
func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

// readCSV returns all rows of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true    // Allow lazy quotes for custom CSV format

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columnToIndex converts a spreadsheet column letter ("A", "B", ..., "AA")
// to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for _, c := range column {
		if c < 'A' || c > 'Z' {
			return 0
		}
		index = index*26 + int(c-'A') + 1
	}
	if index == 0 {
		return 0
	}
	return index - 1
}
