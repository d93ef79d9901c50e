package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/qsobot/internal/qcodes"
	"github.com/example/qsobot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// writeList seeds a study list file for the import to merge into
func writeList(t *testing.T, dir string, codes []models.QCode) string {
	t.Helper()
	path := filepath.Join(dir, "qcodes.json")
	if err := qcodes.Save(path, codes); err != nil {
		t.Fatalf("seeding list: %v", err)
	}
	return path
}

func TestImportCSV(t *testing.T) {
	dir := t.TempDir()
	listPath := writeList(t, dir, []models.QCode{
		{Code: "QRM", Meaning: "Old meaning"},
		{Code: "QTH", Meaning: "My location is"},
	})

	csvPath := filepath.Join(dir, "import.csv")
	content := "Code,Meaning\n" +
		"QRM,I am being interfered with\n" + // update
		"QSY,Change frequency\n" + // new
		"qrz,Who is calling me\n" + // lowercase code, normalized
		"QTH,My location is\n" + // unchanged
		",\n" + // blank padding row
		"BAD,Broken row\n" // invalid code
	if err := os.WriteFile(csvPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config := DefaultImportConfig()
	config.FilePath = csvPath

	result, err := ImportQCodes(config, listPath)
	if err != nil {
		t.Fatalf("ImportQCodes: %v", err)
	}

	if result.TotalProcessed != 6 {
		t.Errorf("TotalProcessed = %d, want 6", result.TotalProcessed)
	}
	if result.Created != 2 {
		t.Errorf("Created = %d, want 2", result.Created)
	}
	if result.Updated != 1 {
		t.Errorf("Updated = %d, want 1", result.Updated)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want one entry", result.Errors)
	}

	merged, err := qcodes.Load(listPath)
	if err != nil {
		t.Fatalf("reloading merged list: %v", err)
	}
	byCode := make(map[string]string)
	for _, c := range merged {
		byCode[c.Code] = c.Meaning
	}
	if byCode["QRM"] != "I am being interfered with" {
		t.Errorf("QRM meaning not updated: %q", byCode["QRM"])
	}
	if byCode["QSY"] != "Change frequency" || byCode["QRZ"] != "Who is calling me" {
		t.Errorf("new codes missing from merged list: %v", byCode)
	}
	if len(merged) != 4 {
		t.Errorf("merged list has %d codes, want 4", len(merged))
	}
}

func TestImportExcel(t *testing.T) {
	dir := t.TempDir()
	listPath := writeList(t, dir, []models.QCode{
		{Code: "QRM", Meaning: "I am being interfered with"},
	})

	xlsxPath := filepath.Join(dir, "import.xlsx")
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Code")
	f.SetCellValue("Sheet1", "B1", "Meaning")
	f.SetCellValue("Sheet1", "A2", "QRN")
	f.SetCellValue("Sheet1", "B2", "I am troubled by static")
	f.SetCellValue("Sheet1", "A3", "QSB")
	f.SetCellValue("Sheet1", "B3", "Your signals are fading")
	if err := f.SaveAs(xlsxPath); err != nil {
		t.Fatalf("writing xlsx: %v", err)
	}
	f.Close()

	config := DefaultImportConfig()
	config.FilePath = xlsxPath

	result, err := ImportQCodes(config, listPath)
	if err != nil {
		t.Fatalf("ImportQCodes: %v", err)
	}
	if result.Created != 2 || result.Updated != 0 || len(result.Errors) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	merged, err := qcodes.Load(listPath)
	if err != nil {
		t.Fatalf("reloading merged list: %v", err)
	}
	if len(merged) != 3 {
		t.Errorf("merged list has %d codes, want 3", len(merged))
	}
}

func TestImportEmptyMeaningIsRowError(t *testing.T) {
	dir := t.TempDir()
	listPath := writeList(t, dir, []models.QCode{
		{Code: "QRM", Meaning: "I am being interfered with"},
	})

	csvPath := filepath.Join(dir, "import.csv")
	if err := os.WriteFile(csvPath, []byte("Code,Meaning\nQSY,\n"), 0644); err != nil {
		t.Fatal(err)
	}

	config := DefaultImportConfig()
	config.FilePath = csvPath

	result, err := ImportQCodes(config, listPath)
	if err != nil {
		t.Fatalf("ImportQCodes: %v", err)
	}
	if len(result.Errors) != 1 || result.Created != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestImportMissingFile(t *testing.T) {
	dir := t.TempDir()
	listPath := writeList(t, dir, []models.QCode{
		{Code: "QRM", Meaning: "I am being interfered with"},
	})

	config := DefaultImportConfig()
	config.FilePath = filepath.Join(dir, "nope.xlsx")

	if _, err := ImportQCodes(config, listPath); err == nil {
		t.Error("expected an error for a missing import file")
	}
}

func TestColumnToIndex(t *testing.T) {
	tests := []struct {
		col  string
		want int
	}{
		{"A", 0}, {"B", 1}, {"Z", 25}, {"AA", 26}, {"ab", 27}, {"", 0}, {"7", 0},
	}
	for _, tt := range tests {
		if got := columnToIndex(tt.col); got != tt.want {
			t.Errorf("columnToIndex(%q) = %d, want %d", tt.col, got, tt.want)
		}
	}
}
