package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"voicefaq/internal/models"
)

const (
	questionColumn = "question"
	answerColumn   = "answer"

	// missingCell stands in for empty table cells, matching what downstream filters expect.
	missingCell = "nan"
)

// LoadFAQTable reads a CSV file with a header row containing at least
// "question" and "answer". Other columns are ignored.
func LoadFAQTable(path string) ([]models.FAQEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open FAQ table: %v", ErrDataLoad, err)
	}
	defer f.Close()

	entries, err := ParseFAQTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ParseFAQTable parses FAQ rows from CSV content.
func ParseFAQTable(r io.Reader) ([]models.FAQEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: FAQ table is empty", ErrDataLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse FAQ header: %v", ErrDataLoad, err)
	}

	questionCol, answerCol := -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		switch strings.TrimSpace(name) {
		case questionColumn:
			if questionCol < 0 {
				questionCol = i
			}
		case answerColumn:
			if answerCol < 0 {
				answerCol = i
			}
		}
	}
	if questionCol < 0 || answerCol < 0 {
		return nil, fmt.Errorf("%w: FAQ table must have %q and %q columns", ErrDataLoad, questionColumn, answerColumn)
	}

	var entries []models.FAQEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse FAQ row %d: %v", ErrDataLoad, len(entries)+1, err)
		}
		entries = append(entries, models.FAQEntry{
			Question: cell(record, questionCol),
			Answer:   cell(record, answerCol),
		})
	}

	return entries, nil
}

func cell(record []string, col int) string {
	if col >= len(record) || record[col] == "" {
		return missingCell
	}
	return record[col]
}

// UsableMatch reports whether a FAQ row is worth showing: both sides
// present and the answer not a missing-cell marker.
func UsableMatch(question, answer string) bool {
	if question == "" || answer == "" {
		return false
	}
	return !strings.EqualFold(answer, missingCell)
}
