package domain

import "time"

// Junction names singled out for extra metrics. All other junction names
// pass through the counters as plain totals.
const (
	JunctionElm    = "Elm Avenue/Rabbit Road"
	JunctionHanley = "Hanley Highway/Westway"
)

// Vehicle type values recognized by the aggregator. The vocabulary is open;
// unrecognized types still count toward the overall total. "Buss" is the
// literal spelling used in the survey data.
const (
	VehicleTruck      = "Truck"
	VehicleBicycle    = "Bicycle"
	VehicleMotorcycle = "Motorcycle"
	VehicleScooter    = "Scooter"
	VehicleBus        = "Buss"
)

// RawRow is one unparsed survey row, keyed by CSV header name.
// Rows stay in this shape only until ParseRow; nothing past the parser
// boundary works with untyped maps except the chart tally, which
// deliberately re-reads raw rows.
type RawRow map[string]string

// VehicleEvent is one validated vehicle observation. An event exists only
// if every field parsed; a failed row produces no partial event.
type VehicleEvent struct {
	JunctionName   string `json:"junction_name"`
	DirectionIn    string `json:"direction_in"`
	DirectionOut   string `json:"direction_out"`
	Speed          int    `json:"speed"`
	VehicleType    string `json:"vehicle_type"`
	ElectricHybrid bool   `json:"electric_hybrid"`
	Weather        string `json:"weather"`
	SpeedLimit     int    `json:"speed_limit"`

	// Hour is the leading HH segment of the timeOfDay field, kept verbatim
	// as a string key ("00".."23" in well-formed data).
	Hour string `json:"hour"`
}

// NoTurn reports whether the vehicle passed straight through, i.e. its
// entry and exit directions are identical.
func (e VehicleEvent) NoTurn() bool { return e.DirectionIn == e.DirectionOut }

// SpeedViolation reports whether the vehicle exceeded the junction limit.
func (e VehicleEvent) SpeedViolation() bool { return e.Speed > e.SpeedLimit }

// Summary holds the aggregate metrics for one survey file. It is built by
// a single pass over the validated events, finalized once by Summarize,
// and read-only thereafter.
type Summary struct {
	SourceFile string `json:"source_file"`

	TotalVehicles       int `json:"total_vehicles"`
	TotalTrucks         int `json:"total_trucks"`
	TotalElectric       int `json:"total_electric"`
	TotalTwoWheelers    int `json:"total_two_wheelers"`
	TotalBusesNorthElm  int `json:"total_buses_north_elm"`
	TotalNoTurn         int `json:"total_no_turn"`
	TotalSpeedViolation int `json:"total_speed_violations"`
	TotalElm            int `json:"total_elm"`
	TotalHanley         int `json:"total_hanley"`
	TotalScootersElm    int `json:"total_scooters_elm"`
	TotalBicycles       int `json:"total_bicycles"`
	TotalRainHours      int `json:"total_rain_hours"`

	AvgBicyclesPerHour int `json:"avg_bicycles_per_hour"`
	PctScootersElm     int `json:"pct_scooters_elm"`
	PctTrucks          int `json:"pct_trucks"`

	// PeakHanleyCount is the highest single-hour count at Hanley
	// Highway/Westway; PeakHourRanges lists every tied hour as a
	// "Between HH:00 and H+1:00" range, ascending.
	PeakHanleyCount int      `json:"peak_hanley_count"`
	PeakHours       []string `json:"peak_hours"`
	PeakHourRanges  []string `json:"peak_hour_ranges"`

	// HanleyCountsPerHour covers only hours with at least one Hanley
	// event; absent hours mean zero.
	HanleyCountsPerHour map[string]int `json:"hanley_counts_per_hour"`

	GeneratedAt time.Time `json:"generated_at"`
}
