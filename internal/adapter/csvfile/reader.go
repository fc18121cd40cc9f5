// Package csvfile reads daily survey CSVs and discovers them by date.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/junctionworks/traffic-survey-service/internal/domain"
)

// Reader streams raw rows from one survey CSV. The underlying file is
// released by Close on every exit path, including mid-read failures.
type Reader struct {
	file   *os.File
	csv    *csv.Reader
	header []string
}

// Open opens a survey CSV and consumes its header row.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open survey file: %w", err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // survey exports occasionally have ragged rows

	header, err := r.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("survey file %s has no header row", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	return &Reader{file: f, csv: r, header: header}, nil
}

// Read returns the next row keyed by header name, or io.EOF when the file
// is exhausted. Columns beyond the header width are dropped; short rows
// simply omit the trailing keys.
func (r *Reader) Read() (domain.RawRow, error) {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read row: %w", err)
	}

	row := make(domain.RawRow, len(r.header))
	for i, name := range r.header {
		if i < len(record) {
			row[name] = record[i]
		}
	}
	return row, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadAll loads a whole survey file into memory, closing it on all paths.
// Convenience for small files and one-off tooling; the pipeline streams
// with Read instead.
func ReadAll(path string) ([]domain.RawRow, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var rows []domain.RawRow
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
