package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrNoVehicles is returned by Summarize when no validated events were
// seen. The truck percentage has no defined value over an empty file, so
// the condition is fatal for that file rather than silently zero — unlike
// the bicycle average and scooter percentage, which do guard their
// denominators.
var ErrNoVehicles = errors.New("no vehicles recorded")

// Aggregator accumulates traffic metrics over one pass of validated
// events. It is owned by a single ProcessFile call and is not safe for
// concurrent use; Summarize finalizes it into an immutable Summary.
type Aggregator struct {
	totalVehicles   int
	trucks          int
	twoWheelers     int
	electric        int
	noTurn          int
	speedViolations int
	elm             int
	hanley          int
	busesNorthElm   int
	scootersElm     int
	bicycles        int

	rainHours    map[string]struct{}
	bicycleHours map[string]struct{}
	hanleyByHour map[string]int
}

// NewAggregator returns an empty accumulator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		rainHours:    make(map[string]struct{}),
		bicycleHours: make(map[string]struct{}),
		hanleyByHour: make(map[string]int),
	}
}

// Add folds one event into the running totals. Vehicle type checks are
// independent and non-exclusive: a scooter at Elm counts as a two-wheeler,
// an Elm vehicle, and an Elm scooter all at once.
func (a *Aggregator) Add(e VehicleEvent) {
	a.totalVehicles++

	if e.VehicleType == VehicleTruck {
		a.trucks++
	}
	switch e.VehicleType {
	case VehicleBicycle, VehicleMotorcycle, VehicleScooter:
		a.twoWheelers++
	}
	if e.ElectricHybrid {
		a.electric++
	}
	if e.NoTurn() {
		a.noTurn++
	}
	if e.SpeedViolation() {
		a.speedViolations++
	}
	if strings.Contains(e.Weather, "rain") {
		a.rainHours[e.Hour] = struct{}{}
	}

	switch e.JunctionName {
	case JunctionElm:
		a.elm++
		if e.DirectionOut == "N" && e.VehicleType == VehicleBus {
			a.busesNorthElm++
		}
		if e.VehicleType == VehicleScooter {
			a.scootersElm++
		}
	case JunctionHanley:
		a.hanley++
		a.hanleyByHour[e.Hour]++
	}

	if e.VehicleType == VehicleBicycle {
		a.bicycles++
		a.bicycleHours[e.Hour] = struct{}{}
	}
}

// Summarize derives the final metrics. It returns ErrNoVehicles for an
// empty pass (see the var doc) and an error if a peak hour key is not
// numeric, which would make its hour range unformattable.
func (a *Aggregator) Summarize() (Summary, error) {
	if a.totalVehicles == 0 {
		return Summary{}, ErrNoVehicles
	}

	s := Summary{
		TotalVehicles:       a.totalVehicles,
		TotalTrucks:         a.trucks,
		TotalElectric:       a.electric,
		TotalTwoWheelers:    a.twoWheelers,
		TotalBusesNorthElm:  a.busesNorthElm,
		TotalNoTurn:         a.noTurn,
		TotalSpeedViolation: a.speedViolations,
		TotalElm:            a.elm,
		TotalHanley:         a.hanley,
		TotalScootersElm:    a.scootersElm,
		TotalBicycles:       a.bicycles,
		TotalRainHours:      len(a.rainHours),
		PctTrucks:           roundRatio(a.trucks*100, a.totalVehicles),
		GeneratedAt:         clock.Now(),
	}

	if len(a.bicycleHours) > 0 {
		s.AvgBicyclesPerHour = roundRatio(a.bicycles, len(a.bicycleHours))
	}
	if a.elm > 0 {
		s.PctScootersElm = roundRatio(a.scootersElm*100, a.elm)
	}

	s.HanleyCountsPerHour = make(map[string]int, len(a.hanleyByHour))
	for hour, count := range a.hanleyByHour {
		s.HanleyCountsPerHour[hour] = count
		if count > s.PeakHanleyCount {
			s.PeakHanleyCount = count
		}
	}

	peaks, ranges, err := peakHourRanges(a.hanleyByHour, s.PeakHanleyCount)
	if err != nil {
		return Summary{}, err
	}
	s.PeakHours = peaks
	s.PeakHourRanges = ranges

	return s, nil
}

// Aggregate runs a full pass over a slice of events. It is a pure function
// of its input: aggregating the same events twice yields identical
// summaries (modulo GeneratedAt).
func Aggregate(events []VehicleEvent) (Summary, error) {
	agg := NewAggregator()
	for _, e := range events {
		agg.Add(e)
	}
	return agg.Summarize()
}

// peakHourRanges collects every hour tied at the maximum count, ascending,
// and formats each as "Between HH:00 and H+1:00". The incremented hour is
// a plain integer with no zero-padding and no wraparound, so hour "23"
// yields "Between 23:00 and 24:00".
func peakHourRanges(byHour map[string]int, maxCount int) ([]string, []string, error) {
	if len(byHour) == 0 {
		return nil, nil, nil
	}

	var peaks []string
	for hour, count := range byHour {
		if count == maxCount {
			peaks = append(peaks, hour)
		}
	}
	sort.Strings(peaks)

	ranges := make([]string, len(peaks))
	for i, hour := range peaks {
		h, err := strconv.Atoi(hour)
		if err != nil {
			return nil, nil, fmt.Errorf("peak hour key %q is not numeric", hour)
		}
		ranges[i] = fmt.Sprintf("Between %s:00 and %d:00", hour, h+1)
	}
	return peaks, ranges, nil
}

// roundRatio divides and rounds half away from zero, once, to the nearest
// integer. Values are never truncated.
func roundRatio(numerator, denominator int) int {
	return int(math.Round(float64(numerator) / float64(denominator)))
}
