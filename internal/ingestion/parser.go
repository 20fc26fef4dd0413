package ingestion

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aridharma/sheetdrop/internal/domain"
)

var (
	// ErrNoSheets is returned when a workbook contains zero sheets.
	ErrNoSheets = errors.New("no sheets found in spreadsheet")

	// ErrUnreadable is returned when the file cannot be opened or read.
	ErrUnreadable = errors.New("failed to read spreadsheet")
)

// Parser reads a spreadsheet file into normalized contact rows.
type Parser struct{}

// NewParser creates a spreadsheet parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse opens the file at path and normalizes every data row of the first
// sheet, preserving file order. The first row is treated as the header; a
// missing cell is treated as absent. Sheets beyond the first are ignored.
// On any read failure the whole operation fails; no partial result is
// returned.
func (p *Parser) Parse(path string) ([]domain.ContactRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(records) == 0 {
		return []domain.ContactRow{}, nil
	}

	headers := records[0]
	rows := make([]domain.ContactRow, 0, len(records)-1)
	for _, record := range records[1:] {
		raw := make(map[string]string, len(headers))
		for idx, header := range headers {
			if idx >= len(record) {
				// Cell missing entirely; leave the key unset so the
				// extractor sees it as absent.
				continue
			}
			raw[header] = record[idx]
		}
		rows = append(rows, NormalizeRow(raw))
	}

	return rows, nil
}
