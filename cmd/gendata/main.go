// Command gendata generates a mock daily survey CSV for local runs and
// demos. It uses the actual domain package to report what the analyzer
// would compute for the generated file, so fixtures stay honest.
//
// Usage:
//
//	go run ./cmd/gendata -day 15 -month 6 -year 2024 -rows 500 -out .
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/junctionworks/traffic-survey-service/internal/adapter/csvfile"
	"github.com/junctionworks/traffic-survey-service/internal/domain"
)

var header = []string{
	"JunctionName",
	"travel_Direction_in",
	"travel_Direction_out",
	"VehicleSpeed",
	"VehicleType",
	"elctricHybrid",
	"Weather_Conditions",
	"JunctionSpeedLimit",
	"timeOfDay",
}

var (
	junctions  = []string{domain.JunctionElm, domain.JunctionHanley}
	directions = []string{"N", "S", "E", "W"}
	vehicles   = []string{
		"Car", "Car", "Car", "Car",
		domain.VehicleTruck,
		domain.VehicleBus,
		domain.VehicleBicycle,
		domain.VehicleMotorcycle,
		domain.VehicleScooter,
	}
	weathers = []string{"Clear", "Clear", "Light Rain", "Heavy Rain", "Fog"}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	day := flag.Int("day", 15, "survey day")
	month := flag.Int("month", 6, "survey month")
	year := flag.Int("year", 2024, "survey year")
	rows := flag.Int("rows", 500, "number of vehicle records")
	seed := flag.Int64("seed", 1, "random seed for reproducible output")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	if err := csvfile.ValidateDate(*day, *month, *year); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))

	path := filepath.Join(*outDir, csvfile.FilePrefix+csvfile.DateStamp(*day, *month, *year)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	agg := domain.NewAggregator()
	for i := 0; i < *rows; i++ {
		row := randomRow(rng)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}

		event, err := domain.ParseRow(rawRow(row))
		if err != nil {
			return fmt.Errorf("generated unparsable row %d: %w", i+1, err)
		}
		agg.Add(event)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	log.Printf("wrote %d records to %s", *rows, path)

	summary, err := agg.Summarize()
	if err != nil {
		return err
	}
	printStats(summary)
	return nil
}

// randomRow generates one record with a mild rush-hour bias so the
// histogram has shape.
func randomRow(rng *rand.Rand) []string {
	junction := junctions[rng.Intn(len(junctions))]
	limit := 30
	speed := 10 + rng.Intn(40)

	hour := rng.Intn(24)
	// Weight mornings and evenings.
	if rng.Intn(3) == 0 {
		peaks := []int{8, 9, 17, 18}
		hour = peaks[rng.Intn(len(peaks))]
	}

	electric := "False"
	if rng.Intn(5) == 0 {
		electric = "True"
	}

	return []string{
		junction,
		directions[rng.Intn(len(directions))],
		directions[rng.Intn(len(directions))],
		fmt.Sprintf("%d", speed),
		vehicles[rng.Intn(len(vehicles))],
		electric,
		weathers[rng.Intn(len(weathers))],
		fmt.Sprintf("%d", limit),
		fmt.Sprintf("%02d:%02d", hour, rng.Intn(60)),
	}
}

func rawRow(row []string) domain.RawRow {
	raw := make(domain.RawRow, len(header))
	for i, key := range header {
		raw[key] = row[i]
	}
	return raw
}

func printStats(s domain.Summary) {
	log.Printf("total vehicles: %d", s.TotalVehicles)
	log.Printf("trucks: %d (%d%%)", s.TotalTrucks, s.PctTrucks)
	log.Printf("electric: %d", s.TotalElectric)
	log.Printf("two-wheelers: %d", s.TotalTwoWheelers)
	log.Printf("speed violations: %d", s.TotalSpeedViolation)
	log.Printf("elm: %d, hanley: %d", s.TotalElm, s.TotalHanley)
	log.Printf("peak hanley hours: %v (%d vehicles)", s.PeakHourRanges, s.PeakHanleyCount)
	log.Printf("rain hours: %d", s.TotalRainHours)
}
