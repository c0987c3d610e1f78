package frame

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// missingMarkers are the cell texts read as missing values.
var missingMarkers = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// IsMissingMarker reports whether a raw cell text denotes a missing value.
func IsMissingMarker(text string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// ReadCSV reads a table whose first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}
	return fromRecords(records)
}

// ReadXLSX reads a table from an Excel workbook. An empty sheet name selects
// the first sheet. The first row is the header.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewValueError("frame.ReadXLSX", "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheet)
	}
	return fromRecords(rows)
}

func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "missing header row")
	}
	header := records[0]
	body := records[1:]
	table := NewTable(len(body))
	for j, name := range header {
		name = strings.TrimSpace(name)
		values := make([]string, len(body))
		valid := make([]bool, len(body))
		for i, record := range body {
			// excelize trims trailing empty cells, csv may be ragged
			if j >= len(record) {
				continue
			}
			if IsMissingMarker(record[j]) {
				continue
			}
			values[i] = record[j]
			valid[i] = true
		}
		if err := table.AddNullable(name, values, valid); err != nil {
			return nil, err
		}
	}
	return table, nil
}
