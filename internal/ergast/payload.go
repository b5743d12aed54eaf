// Package ergast is a client for the Jolpica (Ergast) Formula 1 API.
package ergast

// The API wraps every response in an MRData envelope and serializes
// all numbers as strings.

// Response is the top-level envelope of every API reply.
type Response struct {
	MRData MRData `json:"MRData"`
}

// MRData carries either a standings table or a race table depending
// on the endpoint.
type MRData struct {
	StandingsTable *StandingsTable `json:"StandingsTable,omitempty"`
	RaceTable      *RaceTable      `json:"RaceTable,omitempty"`
}

// StandingsTable holds championship standings for a season.
type StandingsTable struct {
	Season         string          `json:"season"`
	StandingsLists []StandingsList `json:"StandingsLists"`
}

// StandingsList is one snapshot of the championship, usually after
// the latest completed round.
type StandingsList struct {
	Season               string                `json:"season"`
	Round                string                `json:"round"`
	DriverStandings      []DriverStanding      `json:"DriverStandings"`
	ConstructorStandings []ConstructorStanding `json:"ConstructorStandings"`
}

// DriverStanding is one driver's championship entry.
type DriverStanding struct {
	Position     string        `json:"position"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors"`
}

// ConstructorStanding is one team's championship entry.
type ConstructorStanding struct {
	Position    string      `json:"position"`
	Points      string      `json:"points"`
	Wins        string      `json:"wins"`
	Constructor Constructor `json:"Constructor"`
}

// Driver identifies a driver.
type Driver struct {
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	PermanentNumber string `json:"permanentNumber"`
}

// Constructor identifies a team.
type Constructor struct {
	Name string `json:"name"`
}

// RaceTable holds the races of a season.
type RaceTable struct {
	Season string `json:"season"`
	Races  []Race `json:"Races"`
}

// Race is one Grand Prix, with classified results when the results
// endpoint was queried.
type Race struct {
	Season   string   `json:"season"`
	Round    string   `json:"round"`
	RaceName string   `json:"raceName"`
	URL      string   `json:"url"`
	Date     string   `json:"date"`
	Circuit  Circuit  `json:"Circuit"`
	Results  []Result `json:"Results"`
}

// Circuit identifies the track a race runs on.
type Circuit struct {
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

// Location is where a circuit is.
type Location struct {
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

// Result is one classified finisher.
type Result struct {
	Position    string      `json:"position"`
	Points      string      `json:"points"`
	Status      string      `json:"status"`
	Driver      Driver      `json:"Driver"`
	Constructor Constructor `json:"Constructor"`
}

// FullName joins the driver's given and family names.
func (d Driver) FullName() string {
	return d.GivenName + " " + d.FamilyName
}
