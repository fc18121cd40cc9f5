package csvfile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Sentinel errors so callers can distinguish a bad request from an absent
// file when mapping to exit codes or HTTP statuses.
var (
	ErrInvalidDate = errors.New("invalid survey date")
	ErrNoMatch     = errors.New("no matching survey file")
)

// FilePrefix is the fixed naming convention for daily survey exports:
// traffic_dataDDMMYYYY.csv.
const FilePrefix = "traffic_data"

// Survey years supported by the equipment export.
const (
	minYear = 2000
	maxYear = 2024
)

// ValidateDate checks the day/month/year ranges and that the combination
// is a real calendar date (rejecting e.g. February 30).
func ValidateDate(day, month, year int) error {
	if day < 1 || day > 31 {
		return fmt.Errorf("%w: day %d out of range 1-31", ErrInvalidDate, day)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidDate, month)
	}
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidDate, year, minYear, maxYear)
	}

	// time.Date normalizes invalid dates (Feb 30 -> Mar 1), so a changed
	// day after round-tripping means the date does not exist.
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return fmt.Errorf("%w: %02d/%02d/%d does not exist", ErrInvalidDate, day, month, year)
	}
	return nil
}

// DateStamp formats a validated date as the DDMMYYYY token embedded in
// survey file names.
func DateStamp(day, month, year int) string {
	return fmt.Sprintf("%02d%02d%04d", day, month, year)
}

// FindByDate lists the .csv files in dir whose name contains the expected
// traffic_dataDDMMYYYY.csv token. Multiple matches are returned for the
// caller to disambiguate; zero matches is an error so the caller can
// re-prompt for a different date.
func FindByDate(dir string, day, month, year int) ([]string, error) {
	if err := ValidateDate(day, month, year); err != nil {
		return nil, err
	}

	want := FilePrefix + DateStamp(day, month, year) + ".csv"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list survey directory: %w", err)
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".csv") && strings.Contains(name, want) {
			matches = append(matches, name)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrNoMatch, want, dir)
	}
	return matches, nil
}
