package csvfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `JunctionName,travel_Direction_in,travel_Direction_out,VehicleSpeed,VehicleType,elctricHybrid,Weather_Conditions,JunctionSpeedLimit,timeOfDay
Elm Avenue/Rabbit Road,N,S,45,Car,False,Clear,30,09:15
Hanley Highway/Westway,E,E,28,Truck,True,Light Rain,30,17:05
`

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReader_StreamsRowsByHeader(t *testing.T) {
	path := writeTempCSV(t, "traffic_data24122024.csv", sampleCSV)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "Elm Avenue/Rabbit Road", first["JunctionName"])
	assert.Equal(t, "45", first["VehicleSpeed"])
	assert.Equal(t, "09:15", first["timeOfDay"])

	second, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "Truck", second["VehicleType"])

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReader_ShortRowOmitsTrailingKeys(t *testing.T) {
	path := writeTempCSV(t, "short.csv", "JunctionName,VehicleSpeed,timeOfDay\nElm Avenue/Rabbit Road,45\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "45", row["VehicleSpeed"])
	_, present := row["timeOfDay"]
	assert.False(t, present)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "open survey file")
}

func TestOpen_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "empty.csv", "")
	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestReadAll(t *testing.T) {
	path := writeTempCSV(t, "traffic_data01012024.csv", sampleCSV)

	rows, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Hanley Highway/Westway", rows[1]["JunctionName"])
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		day     int
		month   int
		year    int
		wantErr string
	}{
		{"valid date", 24, 12, 2024, ""},
		{"leap day valid", 29, 2, 2024, ""},
		{"day too low", 0, 12, 2024, "day"},
		{"day too high", 32, 1, 2024, "day"},
		{"month too high", 15, 13, 2024, "month"},
		{"year too early", 15, 6, 1999, "year"},
		{"year too late", 15, 6, 2025, "year"},
		{"feb 30 does not exist", 30, 2, 2023, "does not exist"},
		{"non leap feb 29", 29, 2, 2023, "does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.day, tt.month, tt.year)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDateStamp_ZeroPads(t *testing.T) {
	assert.Equal(t, "01022003", DateStamp(1, 2, 2003))
	assert.Equal(t, "24122024", DateStamp(24, 12, 2024))
}

func TestFindByDate(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"traffic_data24122024.csv",
		"copy_of_traffic_data24122024.csv",
		"traffic_data25122024.csv",
		"traffic_data24122024.txt",
		"notes.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	t.Run("matches by embedded date token", func(t *testing.T) {
		matches, err := FindByDate(dir, 24, 12, 2024)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"traffic_data24122024.csv",
			"copy_of_traffic_data24122024.csv",
		}, matches)
	})

	t.Run("no matches is an error", func(t *testing.T) {
		_, err := FindByDate(dir, 1, 1, 2020)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("invalid date rejected before listing", func(t *testing.T) {
		_, err := FindByDate(dir, 30, 2, 2023)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDate)
		assert.Contains(t, err.Error(), "does not exist")
	})
}
