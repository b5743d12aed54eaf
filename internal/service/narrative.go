package service

import (
	"fmt"

	"github.com/yourusername/gridline/internal/models"
)

// pointsForWin is the points a race victory awards, quoted in several
// narrative explanations.
const pointsForWin = 25

// topDriversForCompetitiveness is how many leading drivers the season
// competitiveness insight sums wins over.
const topDriversForCompetitiveness = 5

// NarrativeInsight is a plain-language observation about the cached
// season snapshot, written for viewers new to the sport.
type NarrativeInsight struct {
	Type        string `json:"type"`
	Insight     string `json:"insight"`
	Explanation string `json:"explanation"`
}

// BuildNarrative generates insights from a season snapshot. Each
// insight only appears when the snapshot holds enough data for it, so
// a sparse snapshot yields a shorter list rather than an error.
// competitiveWins is the combined top-5 win count above which the
// season is described as competitive.
func BuildNarrative(snapshot *models.Snapshot, competitiveWins int) []NarrativeInsight {
	insights := []NarrativeInsight{}

	drivers := snapshot.DriverStandings
	if len(drivers) > 0 {
		leader := drivers[0]
		insights = append(insights, NarrativeInsight{
			Type: "Championship Leader",
			Insight: fmt.Sprintf("%s is currently leading the Drivers' Championship with %d points and %d race %s.",
				leader.FullName, int64(leader.Points), leader.Wins, plural(leader.Wins, "win", "wins")),
			Explanation: fmt.Sprintf("This shows who is at the top of the season standings. The points are accumulated from race finishes throughout the season, with %d points awarded for a win.", pointsForWin),
		})

		if len(drivers) > 1 {
			second := drivers[1]
			gap := leader.Points - second.Points
			insights = append(insights, NarrativeInsight{
				Type: "Championship Battle",
				Insight: fmt.Sprintf("The gap between 1st and 2nd place is %d points. %s leads %s in the title fight.",
					int64(gap), leader.FullName, second.FullName),
				Explanation: "This margin indicates how competitive the championship is. A smaller gap means a closer battle, while a larger gap suggests one driver is dominating.",
			})
		}

		if len(drivers) >= 3 {
			insights = append(insights, NarrativeInsight{
				Type: "Top 3 Drivers",
				Insight: fmt.Sprintf("Podium positions: 1st %s (%dpts), 2nd %s (%dpts), 3rd %s (%dpts)",
					drivers[0].FullName, int64(drivers[0].Points),
					drivers[1].FullName, int64(drivers[1].Points),
					drivers[2].FullName, int64(drivers[2].Points)),
				Explanation: "These are the three drivers with the best performance this season. They have consistently finished in high positions to accumulate the most points.",
			})
		}
	}

	constructors := snapshot.ConstructorStandings
	if len(constructors) > 0 {
		topTeam := constructors[0]
		insights = append(insights, NarrativeInsight{
			Type: "Top Constructor",
			Insight: fmt.Sprintf("%s leads the Constructors' Championship with %d points from %d race %s.",
				topTeam.TeamName, int64(topTeam.Points), topTeam.Wins, plural(topTeam.Wins, "victory", "victories")),
			Explanation: "The Constructors' Championship ranks teams based on combined points from both their drivers. This determines prize money and prestige for the teams.",
		})

		if len(constructors) > 1 {
			secondTeam := constructors[1]
			teamGap := topTeam.Points - secondTeam.Points
			insights = append(insights, NarrativeInsight{
				Type: "Team Battle",
				Insight: fmt.Sprintf("In the team standings, %s leads %s by %d points.",
					topTeam.TeamName, secondTeam.TeamName, int64(teamGap)),
				Explanation: "This shows the competition between teams. Both drivers' results contribute to their team's total score.",
			})
		}
	}

	if snapshot.LatestRace != nil {
		race := snapshot.LatestRace
		insights = append(insights, NarrativeInsight{
			Type: "Most Recent Race",
			Insight: fmt.Sprintf("The latest race was the %s at %s in %s.",
				orUnknown(race.MeetingName, "Unknown"), orUnknown(race.CircuitShortName, "Unknown Circuit"), orUnknown(race.Location, "Unknown")),
			Explanation: "This is the most recently completed Grand Prix. Results from this race have been factored into the current championship standings.",
		})

		if len(snapshot.RaceResults) > 0 {
			winner := snapshot.RaceResults[0]
			insights = append(insights, NarrativeInsight{
				Type: "Latest Race Winner",
				Insight: fmt.Sprintf("%s (%s) won the most recent race, earning %d championship points.",
					winner.DriverName, winner.Team, pointsForWin),
				Explanation: fmt.Sprintf("Race winners receive the maximum %d points and strengthen their position in the championship fight.", pointsForWin),
			})
		}
	}

	if len(drivers) >= topDriversForCompetitiveness {
		totalWins := 0
		for _, d := range drivers[:topDriversForCompetitiveness] {
			totalWins += d.Wins
		}
		verdict := "dominance by select drivers"
		if totalWins > competitiveWins {
			verdict = "high competitiveness with wins spread across multiple drivers"
		}
		insights = append(insights, NarrativeInsight{
			Type: "Season Competitiveness",
			Insight: fmt.Sprintf("The top 5 drivers have combined for %d race wins this season, showing %s.",
				totalWins, verdict),
			Explanation: "This metric indicates whether multiple drivers are winning races (competitive season) or if one or two drivers are dominating.",
		})
	}

	return insights
}

func plural(n int, singular string, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func orUnknown(s string, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
