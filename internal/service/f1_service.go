package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridline/internal/ergast"
	"github.com/yourusername/gridline/internal/metrics"
	"github.com/yourusername/gridline/internal/models"
	"github.com/yourusername/gridline/internal/repository"
)

// HistoricalRace is one race of a past season, formatted for display.
type HistoricalRace struct {
	Round            string `json:"round"`
	MeetingName      string `json:"meeting_name"`
	CircuitShortName string `json:"circuit_short_name"`
	Location         string `json:"location"`
	DateStart        string `json:"date_start"`
	URL              string `json:"url"`
}

// SeasonChampion is the championship winner of a past season. Points
// and wins stay as the API's strings.
type SeasonChampion struct {
	Name   string `json:"name"`
	Points string `json:"points"`
	Wins   string `json:"wins"`
	Team   string `json:"team"`
}

// HistoricalInsights summarizes a past season in prose.
type HistoricalInsights struct {
	SeasonSummary string  `json:"season_summary"`
	ChampionInfo  *string `json:"champion_info"`
}

// HistoricalSeason is the full answer for a past-season lookup. A
// failed lookup is a response with Success false and a message, not
// an error.
type HistoricalSeason struct {
	Success   bool                `json:"success"`
	Year      int                 `json:"year"`
	Message   string              `json:"message,omitempty"`
	Races     []HistoricalRace    `json:"races"`
	RaceCount int                 `json:"race_count"`
	Champion  *SeasonChampion     `json:"champion,omitempty"`
	Insights  *HistoricalInsights `json:"insights,omitempty"`
}

// F1Service serves current and historical season data backed by the
// Ergast API and the snapshot cache.
type F1Service struct {
	client          *ergast.Client
	snapshots       repository.SnapshotRepository
	normalizer      *Normalizer
	historical      *gocache.Cache
	defaultSeason   int
	competitiveWins int
	logger          *logrus.Logger
}

// NewF1Service creates the F1 data service. historicalTTL bounds how
// long past-season lookups are served from memory; past seasons never
// change, the TTL just bounds memory usage.
func NewF1Service(
	client *ergast.Client,
	snapshots repository.SnapshotRepository,
	defaultSeason int,
	competitiveWins int,
	historicalTTL time.Duration,
	logger *logrus.Logger,
) *F1Service {
	return &F1Service{
		client:          client,
		snapshots:       snapshots,
		normalizer:      NewNormalizer(),
		historical:      gocache.New(historicalTTL, 2*historicalTTL),
		defaultSeason:   defaultSeason,
		competitiveWins: competitiveWins,
		logger:          logger,
	}
}

// FetchAndCache pulls the default season's standings and results from
// the upstream API, normalizes them, and appends the snapshot to the
// cache. The previous snapshot stays untouched if anything fails.
func (s *F1Service) FetchAndCache(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()

	drivers, err := s.client.DriverStandings(ctx, s.defaultSeason)
	if err != nil {
		metrics.RecordUpstreamFetchError()
		return nil, fmt.Errorf("fetch driver standings: %w", err)
	}

	constructors, err := s.client.ConstructorStandings(ctx, s.defaultSeason)
	if err != nil {
		metrics.RecordUpstreamFetchError()
		return nil, fmt.Errorf("fetch constructor standings: %w", err)
	}

	results, err := s.client.SeasonResults(ctx, s.defaultSeason)
	if err != nil {
		metrics.RecordUpstreamFetchError()
		return nil, fmt.Errorf("fetch season results: %w", err)
	}

	snapshot := s.normalizer.Snapshot(drivers, constructors, results)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.snapshots.Cache(ctx, models.SnapshotType, string(data), time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("cache snapshot: %w", err)
	}

	metrics.RecordUpstreamFetch(time.Since(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"season":  s.defaultSeason,
		"drivers": len(snapshot.DriverStandings),
	}).Info("Cached season snapshot")

	return snapshot, nil
}

// Insights loads the latest cached snapshot and builds the narrative
// insights for it. Returns models.ErrNoSnapshot when nothing has been
// fetched yet.
func (s *F1Service) Insights(ctx context.Context) ([]NarrativeInsight, *models.Snapshot, error) {
	data, _, err := s.snapshots.Latest(ctx, models.SnapshotType)
	if err != nil {
		return nil, nil, err
	}

	snapshot := &models.Snapshot{}
	if err := json.Unmarshal([]byte(data), snapshot); err != nil {
		return nil, nil, fmt.Errorf("unmarshal cached snapshot: %w", err)
	}

	return BuildNarrative(snapshot, s.competitiveWins), snapshot, nil
}

// Historical looks up a past season. Lookup failures come back as a
// response with Success false rather than an error, so callers always
// have a year-shaped answer to serve.
func (s *F1Service) Historical(ctx context.Context, year int) *HistoricalSeason {
	cacheKey := strconv.Itoa(year)
	if cached, ok := s.historical.Get(cacheKey); ok {
		return cached.(*HistoricalSeason)
	}

	season := s.lookupSeason(ctx, year)
	if season.Success {
		s.historical.SetDefault(cacheKey, season)
		metrics.SetHistoricalCacheEntries(s.historical.ItemCount())
	}
	return season
}

func (s *F1Service) lookupSeason(ctx context.Context, year int) *HistoricalSeason {
	failure := func(message string) *HistoricalSeason {
		return &HistoricalSeason{
			Success:   false,
			Year:      year,
			Message:   message,
			Races:     []HistoricalRace{},
			RaceCount: 0,
		}
	}

	racesResp, err := s.client.SeasonRaces(ctx, year)
	if err != nil {
		var apiErr *ergast.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
			return failure(fmt.Sprintf("Unable to fetch data for %d", year))
		}
		return failure(fmt.Sprintf("Error fetching historical data: %v", err))
	}

	var races []ergast.Race
	if racesResp.MRData.RaceTable != nil {
		races = racesResp.MRData.RaceTable.Races
	}
	if len(races) == 0 {
		return failure(fmt.Sprintf("No race data found for %d. The Jolpica API has data from 1950-present.", year))
	}

	standingsResp, err := s.client.DriverStandings(ctx, year)
	if err != nil {
		return failure(fmt.Sprintf("Error fetching historical data: %v", err))
	}
	champion := seasonChampion(standingsResp)

	formatted := make([]HistoricalRace, 0, len(races))
	countries := make(map[string]struct{})
	for _, race := range races {
		countries[race.Circuit.Location.Country] = struct{}{}
		formatted = append(formatted, HistoricalRace{
			Round:            race.Round,
			MeetingName:      race.RaceName,
			CircuitShortName: race.Circuit.CircuitName,
			Location:         fmt.Sprintf("%s, %s", race.Circuit.Location.Locality, race.Circuit.Location.Country),
			DateStart:        race.Date,
			URL:              race.URL,
		})
	}

	insights := &HistoricalInsights{
		SeasonSummary: fmt.Sprintf("The %d Formula 1 season consisted of %d races across %d countries.", year, len(formatted), len(countries)),
	}
	if champion != nil {
		info := fmt.Sprintf("%s won the %d World Championship driving for %s, with %s race wins and %s points.",
			champion.Name, year, champion.Team, champion.Wins, champion.Points)
		insights.ChampionInfo = &info
	}

	return &HistoricalSeason{
		Success:   true,
		Year:      year,
		Races:     formatted,
		RaceCount: len(formatted),
		Champion:  champion,
		Insights:  insights,
	}
}

// seasonChampion pulls the standings leader out of a driver standings
// payload, or nil when the season has no standings.
func seasonChampion(resp *ergast.Response) *SeasonChampion {
	list, ok := firstStandingsList(resp)
	if !ok || len(list.DriverStandings) == 0 {
		return nil
	}

	entry := list.DriverStandings[0]
	team := defaultTeamName
	if len(entry.Constructors) > 0 {
		team = entry.Constructors[0].Name
	}

	return &SeasonChampion{
		Name:   entry.Driver.FullName(),
		Points: entry.Points,
		Wins:   entry.Wins,
		Team:   team,
	}
}
