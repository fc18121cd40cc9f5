// Package domain models daily traffic-survey data and the fixed metric set
// derived from it.
//
// # Data Source
//
// Surveys arrive as one CSV per day, named traffic_dataDDMMYYYY.csv, with
// one row per observed vehicle event. Column names are taken literally
// from the survey equipment export, including its quirks:
//
//	JunctionName, travel_Direction_in, travel_Direction_out, VehicleSpeed,
//	VehicleType, elctricHybrid (sic), Weather_Conditions,
//	JunctionSpeedLimit, timeOfDay
//
// timeOfDay is HH:MM; the hour portion may be one or two digits and is
// kept verbatim as the hour key. "Buss" is the literal vehicle type value
// used for buses in the source data.
//
// # Survey Conventions
//
// Two junctions get dedicated metrics: Elm Avenue/Rabbit Road (scooter
// share, northbound buses) and Hanley Highway/Westway (per-hour volumes
// and peak hour detection). A vehicle whose entry and exit directions
// match is counted as passing straight through ("no turn"). Any weather
// text containing "rain" marks that hour as a rain hour; rain hours are
// counted as distinct hours, not rows.
//
// # Row Tolerance
//
// Real survey files contain malformed rows. The parser discards a row
// when a numeric field is present but unparsable ([ErrSkipRow]); missing
// fields instead fall back to zero values. A discarded row never aborts
// the pass.
//
// # Defined Failure
//
// The truck percentage is intentionally unguarded against an empty file:
// summarizing zero events returns [ErrNoVehicles] rather than defaulting
// to zero, preserving the historical behavior of the survey tooling.
package domain
