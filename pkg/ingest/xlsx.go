// Package ingest loads watchlist names from the registry spreadsheet and
// embeds them into storable records.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrIngest is returned when the spreadsheet cannot be read.
var ErrIngest = errors.New("watchlist ingest failed")

// The registry sheet layout: a three-row header, names in column B,
// a non-empty column E marking the record as removed.
const (
	headerRows = 3
	nameCol    = 1
	removedCol = 4
)

// Item is a raw spreadsheet row before embedding.
type Item struct {
	Name    string
	Removed bool
}

// LoadSheet reads the first sheet of the workbook at path and returns its
// items. Blank rows and rows without enough columns are skipped.
func LoadSheet(path string) ([]Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook %q: %v", ErrIngest, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrIngest)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrIngest, sheets[0], err)
	}

	if len(rows) <= headerRows {
		return nil, nil
	}

	var items []Item
	for _, row := range rows[headerRows:] {
		if len(row) <= nameCol {
			continue
		}

		name := strings.TrimSpace(row[nameCol])

		removed := false
		if len(row) > removedCol && strings.TrimSpace(row[removedCol]) != "" {
			removed = true
		}

		if name == "" && !removed {
			continue
		}

		items = append(items, Item{Name: name, Removed: removed})
	}

	return items, nil
}
