package validation

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/inferloop/modelreg/pkg/errors"
)

// Dataset is a loaded tabular training or inference dataset.
type Dataset struct {
	Columns []string
	Rows    [][]string

	colIndex map[string]int
}

// LoadCSV reads a headered CSV dataset from path.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeDataValidationFailed,
			fmt.Sprintf("failed to open dataset %s", path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeDataValidationFailed,
			fmt.Sprintf("failed to parse dataset %s", path))
	}
	if len(records) == 0 {
		return nil, errors.NewDataValidationError("dataset is empty")
	}

	return NewDataset(records[0], records[1:]), nil
}

// NewDataset builds a dataset from a header row and data rows.
func NewDataset(columns []string, rows [][]string) *Dataset {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Dataset{
		Columns:  columns,
		Rows:     rows,
		colIndex: idx,
	}
}

// NumRows returns the number of data rows.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// HasColumn reports whether the dataset has a column with the given name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.colIndex[name]
	return ok
}

// Column returns the values of a named column. The second return is false
// when the column does not exist.
func (d *Dataset) Column(name string) ([]string, bool) {
	i, ok := d.colIndex[name]
	if !ok {
		return nil, false
	}
	values := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if i < len(row) {
			values = append(values, row[i])
		}
	}
	return values, true
}
