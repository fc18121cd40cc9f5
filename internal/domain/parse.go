package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSkipRow marks a row that failed validation. Callers drop the row and
// continue with the next one; the error never aborts a whole pass.
var ErrSkipRow = errors.New("skip row")

// ParseRow converts one raw survey row into a typed VehicleEvent.
//
// Missing numeric fields default to "0" and a missing timestamp to "00:00"
// before casting, so an absent field is not a skip. A field that is present
// but non-numeric is a genuine cast failure and returns an error wrapping
// ErrSkipRow.
func ParseRow(row RawRow) (VehicleEvent, error) {
	speed, err := parseIntField(row, "VehicleSpeed")
	if err != nil {
		return VehicleEvent{}, err
	}
	limit, err := parseIntField(row, "JunctionSpeedLimit")
	if err != nil {
		return VehicleEvent{}, err
	}

	return VehicleEvent{
		JunctionName:   strings.TrimSpace(row["JunctionName"]),
		DirectionIn:    strings.TrimSpace(row["travel_Direction_in"]),
		DirectionOut:   strings.TrimSpace(row["travel_Direction_out"]),
		Speed:          speed,
		VehicleType:    strings.TrimSpace(row["VehicleType"]),
		ElectricHybrid: parseBoolField(row["elctricHybrid"]),
		Weather:        strings.ToLower(row["Weather_Conditions"]),
		SpeedLimit:     limit,
		Hour:           extractHour(row),
	}, nil
}

// parseIntField casts a numeric column to int. An absent column defaults
// to 0; a column that is present but non-numeric (including blank) is a
// cast failure.
func parseIntField(row RawRow, key string) (int, error) {
	s, ok := row[key]
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: field %s=%q is not an integer", ErrSkipRow, key, s)
	}
	return v, nil
}

// parseBoolField matches "true" case-insensitively; anything else is false.
func parseBoolField(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// extractHour takes the leading HH segment of the timeOfDay field verbatim,
// with no normalization beyond what the source text already carries. An
// absent timestamp defaults to "00:00".
func extractHour(row RawRow) string {
	t, ok := row["timeOfDay"]
	if !ok {
		t = "00:00"
	}
	hour, _, _ := strings.Cut(t, ":")
	return hour
}
