// Package service implements the application's business logic on top of
// the Ergast client, the insight engine, and the repositories.
package service

import (
	"fmt"
	"strconv"

	"github.com/yourusername/gridline/internal/ergast"
	"github.com/yourusername/gridline/internal/models"
)

const (
	// defaultDriverNumber stands in for drivers without a permanent
	// number, common in historical seasons.
	defaultDriverNumber = "N/A"

	// defaultTeamName stands in for standings entries with no
	// constructor attached.
	defaultTeamName = "Unknown"

	// defaultTeamColour is used because the API carries no livery
	// colors; the frontend assigns its own palette.
	defaultTeamColour = "000000"

	// maxRaceResults caps how many classified finishers a snapshot
	// keeps from the latest race.
	maxRaceResults = 10
)

// Normalizer flattens raw Ergast payloads into the snapshot shape the
// service caches and serves. Missing upstream structures degrade to
// empty slices or nil, never errors.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Snapshot combines the three season payloads into one snapshot.
func (n *Normalizer) Snapshot(drivers, constructors, results *ergast.Response) *models.Snapshot {
	snapshot := &models.Snapshot{
		DriverStandings:      n.DriverStandings(drivers),
		ConstructorStandings: n.ConstructorStandings(constructors),
		RaceResults:          []models.RaceResult{},
	}

	race, raceResults := n.latestRace(results)
	snapshot.LatestRace = race
	if raceResults != nil {
		snapshot.RaceResults = raceResults
	}

	return snapshot
}

// DriverStandings flattens the drivers' championship table.
func (n *Normalizer) DriverStandings(resp *ergast.Response) []models.DriverStanding {
	standings := []models.DriverStanding{}
	list, ok := firstStandingsList(resp)
	if !ok {
		return standings
	}

	for _, entry := range list.DriverStandings {
		teamName := defaultTeamName
		if len(entry.Constructors) > 0 {
			teamName = entry.Constructors[0].Name
		}

		standings = append(standings, models.DriverStanding{
			Position:     atoi(entry.Position),
			FullName:     entry.Driver.FullName(),
			DriverNumber: orDefault(entry.Driver.PermanentNumber, defaultDriverNumber),
			TeamName:     teamName,
			TeamColour:   defaultTeamColour,
			Points:       atof(entry.Points),
			Wins:         atoi(entry.Wins),
		})
	}

	return standings
}

// ConstructorStandings flattens the constructors' championship table.
func (n *Normalizer) ConstructorStandings(resp *ergast.Response) []models.ConstructorStanding {
	standings := []models.ConstructorStanding{}
	list, ok := firstStandingsList(resp)
	if !ok {
		return standings
	}

	for _, entry := range list.ConstructorStandings {
		standings = append(standings, models.ConstructorStanding{
			Position:   atoi(entry.Position),
			TeamName:   entry.Constructor.Name,
			TeamColour: defaultTeamColour,
			Points:     atof(entry.Points),
			Wins:       atoi(entry.Wins),
		})
	}

	return standings
}

// latestRace extracts the final race of the results payload along with
// its leading finishers.
func (n *Normalizer) latestRace(resp *ergast.Response) (*models.RaceInfo, []models.RaceResult) {
	if resp == nil || resp.MRData.RaceTable == nil || len(resp.MRData.RaceTable.Races) == 0 {
		return nil, nil
	}

	races := resp.MRData.RaceTable.Races
	last := races[len(races)-1]

	info := &models.RaceInfo{
		MeetingName:      last.RaceName,
		CircuitShortName: last.Circuit.CircuitName,
		Location:         fmt.Sprintf("%s, %s", last.Circuit.Location.Locality, last.Circuit.Location.Country),
		DateStart:        last.Date,
		Round:            last.Round,
		Season:           last.Season,
	}

	raceResults := []models.RaceResult{}
	for i, result := range last.Results {
		if i >= maxRaceResults {
			break
		}
		raceResults = append(raceResults, models.RaceResult{
			Position:     atoi(result.Position),
			DriverName:   result.Driver.FullName(),
			DriverNumber: orDefault(result.Driver.PermanentNumber, defaultDriverNumber),
			Team:         result.Constructor.Name,
			Points:       atof(result.Points),
			Status:       result.Status,
		})
	}

	return info, raceResults
}

func firstStandingsList(resp *ergast.Response) (*ergast.StandingsList, bool) {
	if resp == nil || resp.MRData.StandingsTable == nil || len(resp.MRData.StandingsTable.StandingsLists) == 0 {
		return nil, false
	}
	return &resp.MRData.StandingsTable.StandingsLists[0], true
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func atof(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func orDefault(s string, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
