package models

// SnapshotType is the tag under which combined season snapshots are cached.
const SnapshotType = "combined"

// DriverStanding is one row of the flattened drivers' championship table.
type DriverStanding struct {
	Position     int     `json:"position"`
	FullName     string  `json:"full_name"`
	DriverNumber string  `json:"driver_number"`
	TeamName     string  `json:"team_name"`
	TeamColour   string  `json:"team_colour"`
	Points       float64 `json:"points"`
	Wins         int     `json:"wins"`
}

// ConstructorStanding is one row of the flattened constructors' table.
type ConstructorStanding struct {
	Position   int     `json:"position"`
	TeamName   string  `json:"team_name"`
	TeamColour string  `json:"team_colour"`
	Points     float64 `json:"points"`
	Wins       int     `json:"wins"`
}

// RaceInfo describes the most recently completed race of the season.
type RaceInfo struct {
	MeetingName      string `json:"meeting_name"`
	CircuitShortName string `json:"circuit_short_name"`
	Location         string `json:"location"`
	DateStart        string `json:"date_start"`
	Round            string `json:"round"`
	Season           string `json:"season"`
}

// RaceResult is one classified finisher of the latest race.
type RaceResult struct {
	Position     int     `json:"position"`
	DriverName   string  `json:"driver_name"`
	DriverNumber string  `json:"driver_number"`
	Team         string  `json:"team"`
	Points       float64 `json:"points"`
	Status       string  `json:"status"`
}

// Snapshot is the normalized shape cached after each upstream fetch.
// Missing upstream structures degrade to empty lists or nil, never errors.
type Snapshot struct {
	DriverStandings      []DriverStanding      `json:"driver_standings"`
	ConstructorStandings []ConstructorStanding `json:"constructor_standings"`
	LatestRace           *RaceInfo             `json:"latest_race"`
	RaceResults          []RaceResult          `json:"race_results"`
}
