package domain

import (
	"fmt"
	"strings"
)

const (
	reportHeaderRule  = "***************************"
	reportTrailerRule = "**************************************************"
)

// FormatReport renders a Summary as the fixed-order report lines written
// to the results file. Line order, wording, and the blank separators are a
// compatibility contract with the historical report format; only the
// computed values vary.
func FormatReport(s Summary) []string {
	return []string{
		reportHeaderRule,
		fmt.Sprintf("Data file analyzed: %s", s.SourceFile),
		reportHeaderRule,
		"",
		fmt.Sprintf("The total number of vehicles recorded on the selected date: %d", s.TotalVehicles),
		fmt.Sprintf("The total count of trucks passing through all junctions: %d", s.TotalTrucks),
		fmt.Sprintf("The total count of electric vehicles recorded: %d", s.TotalElectric),
		fmt.Sprintf("The total number of two-wheeled vehicles (bicycles, motorcycles, scooters): %d", s.TotalTwoWheelers),
		fmt.Sprintf("The total number of buses heading north from Elm Avenue/Rabbit Road junction: %d", s.TotalBusesNorthElm),
		fmt.Sprintf("The total number of vehicles traveling straight through both junctions without turning: %d", s.TotalNoTurn),
		fmt.Sprintf("The percentage of all recorded vehicles that are trucks: %d%%", s.PctTrucks),
		fmt.Sprintf("The average number of bicycles recorded per hour: %d", s.AvgBicyclesPerHour),
		"",
		fmt.Sprintf("The total number of vehicles exceeding the speed limit: %d", s.TotalSpeedViolation),
		fmt.Sprintf("The total number of vehicles recorded at Elm Avenue/Rabbit Road junction: %d", s.TotalElm),
		fmt.Sprintf("The total number of vehicles recorded at Hanley Highway/Westway junction: %d", s.TotalHanley),
		fmt.Sprintf("The percentage of vehicles at Elm Avenue/Rabbit Road that are scooters: %d%%", s.PctScootersElm),
		"",
		fmt.Sprintf("The highest number of vehicles recorded in a single hour at Hanley Highway/Westway: %d", s.PeakHanleyCount),
		fmt.Sprintf("The busiest traffic hours at Hanley Highway/Westway: %s", strings.Join(s.PeakHourRanges, ", ")),
		fmt.Sprintf("The total number of hours with rain on the selected date: %d", s.TotalRainHours),
		reportTrailerRule,
	}
}
