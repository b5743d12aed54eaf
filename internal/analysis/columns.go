package analysis

import "strings"

// Roles maps the semantic columns detected in an uploaded table.
// An empty string means the role was not found.
type Roles struct {
	Driver    string
	Team      string
	LapTime   string
	Position  string
	Circuit   string
	Points    string
	LapNumber string
	Date      string
}

var (
	driverNames   = []string{"driver", "driver_name", "drivername"}
	teamNames     = []string{"team", "team_name", "constructor", "teamname"}
	positionNames = []string{"position", "pos", "finishing_position"}
	circuitNames  = []string{"circuit", "track", "circuit_name"}
	pointsNames   = []string{"points", "championship_points"}
	dateNames     = []string{"date", "race_date", "session_date"}
)

// ClassifyColumns assigns headers to semantic roles. Each role is
// resolved independently and the first matching header wins, so one
// header may serve several roles. Matching is case-insensitive.
func ClassifyColumns(columns []string) Roles {
	return Roles{
		Driver:    firstExact(columns, driverNames),
		Team:      firstExact(columns, teamNames),
		Position:  firstExact(columns, positionNames),
		Circuit:   firstExact(columns, circuitNames),
		Points:    firstExact(columns, pointsNames),
		Date:      firstExact(columns, dateNames),
		LapTime:   firstLapTime(columns),
		LapNumber: firstLapNumber(columns),
	}
}

func firstExact(columns []string, names []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, name := range names {
			if lower == name {
				return col
			}
		}
	}
	return ""
}

func firstLapTime(columns []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "lap") &&
			(strings.Contains(lower, "time") || strings.Contains(lower, "seconds")) {
			return col
		}
	}
	return ""
}

func firstLapNumber(columns []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "lap") && strings.Contains(lower, "number") {
			return col
		}
	}
	return ""
}
