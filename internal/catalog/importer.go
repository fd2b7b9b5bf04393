package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"wordcards/internal/models"
)

// ErrUnsupportedFormat is returned for catalog files that are not .json, .xlsx or .csv
var ErrUnsupportedFormat = errors.New("catalog: unsupported file format")

// Spreadsheet column order, the first row is a header
const (
	colFamilyID = iota
	colFamilyName
	colRime
	colPrefix
	colWord
	colPhonetic
	colMeaning
	colPartOfSpeech
	colExamples
	colRelatedWords
	columnCount
)

// LoadFile reads a catalog from a JSON, Excel or CSV file
func LoadFile(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		return Parse(data)
	case ".xlsx":
		return importFromExcel(path)
	case ".csv":
		return importFromCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// importFromExcel reads rows from the first sheet of an Excel workbook
func importFromExcel(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return buildFromRows(rows)
}

// importFromCSV reads rows from a comma separated file
func importFromCSV(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return buildFromRows(rows)
}

// buildFromRows groups word rows into families in order of first appearance
func buildFromRows(rows [][]string) (*Catalog, error) {
	var families []models.WordFamily
	index := make(map[string]int)

	for i, row := range rows {
		// Skip header
		if i == 0 {
			continue
		}
		if isBlank(row) {
			continue
		}

		// Pad short rows so optional trailing cells can be omitted
		for len(row) < columnCount {
			row = append(row, "")
		}

		familyID := strings.TrimSpace(row[colFamilyID])
		word := strings.TrimSpace(row[colWord])
		if familyID == "" || word == "" {
			return nil, fmt.Errorf("row %d: family_id and word are required", i+1)
		}

		pos, ok := index[familyID]
		if !ok {
			rime := strings.TrimSpace(row[colRime])
			if rime == "" {
				rime = familyID
			}
			name := strings.TrimSpace(row[colFamilyName])
			if name == "" {
				name = "-" + rime + " family"
			}
			families = append(families, models.WordFamily{ID: familyID, Name: name, Rime: rime})
			pos = len(families) - 1
			index[familyID] = pos
		}

		examples, err := parseExamples(row[colExamples])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		families[pos].Words = append(families[pos].Words, models.Word{
			Word:         word,
			Prefix:       strings.TrimSpace(row[colPrefix]),
			Phonetic:     strings.TrimSpace(row[colPhonetic]),
			Meaning:      strings.TrimSpace(row[colMeaning]),
			PartOfSpeech: strings.TrimSpace(row[colPartOfSpeech]),
			Examples:     examples,
			RelatedWords: splitList(row[colRelatedWords], ","),
		})
	}

	return New(families)
}

// parseExamples reads "en|zh" pairs separated by semicolons
func parseExamples(cell string) ([]models.Example, error) {
	examples := []models.Example{}
	for _, pair := range splitList(cell, ";") {
		en, zh, ok := strings.Cut(pair, "|")
		if !ok {
			return nil, fmt.Errorf("example %q is not in en|zh form", pair)
		}
		examples = append(examples, models.Example{EN: strings.TrimSpace(en), ZH: strings.TrimSpace(zh)})
	}
	return examples, nil
}

func splitList(cell, sep string) []string {
	items := []string{}
	for _, item := range strings.Split(cell, sep) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
