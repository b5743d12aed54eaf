package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// pointsPerWin is the points awarded for a Grand Prix victory,
	// used to translate championship gaps into race wins.
	pointsPerWin = 25

	// earlyStintLastLap is the last lap counted as the early stint
	// when measuring pace degradation.
	earlyStintLastLap = 10

	// chartTopDrivers caps the driver performance chart series.
	chartTopDrivers = 10
)

// Insight is one generated observation about the uploaded data.
type Insight struct {
	Type    string `json:"type"`
	Insight string `json:"insight"`
	Details string `json:"details"`
}

// DriverChartEntry is one bar of the driver performance chart.
type DriverChartEntry struct {
	Driver        string  `json:"driver"`
	AvgLapTime    float64 `json:"avg_lap_time"`
	FastestLap    float64 `json:"fastest_lap"`
	LapsCompleted int     `json:"laps_completed"`
}

// TeamChartEntry is one bar of the team performance chart.
type TeamChartEntry struct {
	Team       string  `json:"team"`
	AvgLapTime float64 `json:"avg_lap_time"`
	BestLap    float64 `json:"best_lap"`
}

// CircuitChartEntry is one bar of the circuit comparison chart.
type CircuitChartEntry struct {
	Circuit    string  `json:"circuit"`
	AvgLapTime float64 `json:"avg_lap_time"`
	FastestLap float64 `json:"fastest_lap"`
	Laps       int     `json:"laps"`
}

// Charts holds the chart series the analysis produced. Absent series
// are omitted so an empty analysis marshals as {}.
type Charts struct {
	DriverPerformance []DriverChartEntry  `json:"driver_performance,omitempty"`
	TeamPerformance   []TeamChartEntry    `json:"team_performance,omitempty"`
	CircuitComparison []CircuitChartEntry `json:"circuit_comparison,omitempty"`
}

// Summary describes the shape of the analyzed table.
type Summary struct {
	TotalRows    int      `json:"total_rows"`
	TotalColumns int      `json:"total_columns"`
	Columns      []string `json:"columns"`
}

// Report is the full analysis output persisted alongside a file.
type Report struct {
	Insights []Insight `json:"insights"`
	Charts   Charts    `json:"charts"`
	Summary  Summary   `json:"summary"`
}

// Engine generates insights from parsed tables.
type Engine struct {
	degradationThreshold float64
	logger               *logrus.Logger
}

// NewEngine creates an insight engine. The degradation threshold is the
// lap time increase in seconds above which a stint is reported as tire
// degradation rather than consistent pace.
func NewEngine(degradationThreshold float64, logger *logrus.Logger) *Engine {
	return &Engine{
		degradationThreshold: degradationThreshold,
		logger:               logger,
	}
}

// Analyze runs every applicable analysis section over the table. A
// section that cannot run for the given data is skipped, never fatal,
// so a partial table still yields a useful report.
func (e *Engine) Analyze(table *Table) *Report {
	if report, bad := e.checkDelimiter(table); bad {
		return report
	}

	// Header whitespace is never meaningful.
	for i, col := range table.Columns {
		table.Columns[i] = strings.TrimSpace(col)
	}

	roles := ClassifyColumns(table.Columns)

	report := &Report{
		Insights: []Insight{e.overviewInsight(table)},
		Summary: Summary{
			TotalRows:    len(table.Rows),
			TotalColumns: len(table.Columns),
			Columns:      table.Columns,
		},
	}

	e.analyzeDrivers(table, roles, report)
	e.analyzeTeams(table, roles, report)
	e.analyzeCircuits(table, roles, report)
	e.analyzePoints(table, roles, report)
	e.analyzePace(table, roles, report)
	e.analyzeOverall(table, roles, report)
	e.analyzeDates(table, roles, report)

	return report
}

// checkDelimiter detects a file whose separator was not a comma: it
// collapses into a single column whose name still holds the delimiter.
func (e *Engine) checkDelimiter(table *Table) (*Report, bool) {
	if len(table.Columns) != 1 {
		return nil, false
	}
	col := table.Columns[0]
	if !strings.ContainsAny(col, ",;\t") {
		return nil, false
	}

	return &Report{
		Insights: []Insight{{
			Type:    "⚠️ CSV Parsing Error",
			Insight: "The CSV file wasn't parsed correctly. All data appears in one column.",
			Details: "This usually happens when the delimiter is incorrect. Please ensure your CSV uses commas (,) as separators and is properly formatted.",
		}},
		Summary: Summary{
			TotalRows:    len(table.Rows),
			TotalColumns: len(table.Columns),
			Columns:      table.Columns,
		},
	}, true
}

func (e *Engine) overviewInsight(table *Table) Insight {
	return Insight{
		Type:    "Dataset Overview",
		Insight: fmt.Sprintf("Analyzing %s records across %d data fields", humanize.Comma(int64(len(table.Rows))), len(table.Columns)),
		Details: fmt.Sprintf("Data contains: %s", strings.Join(table.Columns, ", ")),
	}
}

// groupStat carries per-group aggregates rounded to milliseconds.
type groupStat struct {
	name   string
	avg    float64
	min    float64
	max    float64
	std    float64
	hasStd bool
	count  int
}

// groupBy aggregates a numeric column per value of a key column.
// Groups with no numeric values are dropped. The result is ordered
// by group name so downstream sorts break ties alphabetically.
func (e *Engine) groupBy(table *Table, keyCol string, valueCol string) []groupStat {
	keyIdx := table.columnIndex(keyCol)
	valueIdx := table.columnIndex(valueCol)
	if keyIdx < 0 || valueIdx < 0 {
		return nil
	}

	grouped := make(map[string][]float64)
	for _, row := range table.Rows {
		v, ok := parseNumber(row[valueIdx])
		if !ok {
			continue
		}
		key := row[keyIdx]
		grouped[key] = append(grouped[key], v)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]groupStat, 0, len(names))
	for _, name := range names {
		values := grouped[name]

		avg, err := stats.Mean(values)
		if err != nil {
			continue
		}
		min, err := stats.Min(values)
		if err != nil {
			continue
		}
		max, err := stats.Max(values)
		if err != nil {
			continue
		}

		gs := groupStat{
			name:  name,
			avg:   round3(avg),
			min:   round3(min),
			max:   round3(max),
			count: len(values),
		}

		// Sample deviation needs at least two laps.
		if len(values) >= 2 {
			if std, err := stats.StandardDeviationSample(values); err == nil {
				gs.std = round3(std)
				gs.hasStd = true
			}
		}

		result = append(result, gs)
	}

	return result
}

func (e *Engine) analyzeDrivers(table *Table, roles Roles, report *Report) {
	if roles.Driver == "" || roles.LapTime == "" {
		return
	}

	drivers := e.groupBy(table, roles.Driver, roles.LapTime)
	if len(drivers) == 0 {
		e.logger.Debug("Driver analysis skipped: no numeric lap times")
		return
	}
	sortByAvg(drivers)

	fastest := drivers[0]
	report.Insights = append(report.Insights, Insight{
		Type:    "🏆 Fastest Driver",
		Insight: fmt.Sprintf("%s dominates with an average lap time of %.3fs (best: %.3fs)", fastest.name, fastest.avg, fastest.min),
		Details: fmt.Sprintf("Based on %d laps. Their consistency (std dev: %.3fs) shows reliable performance.", fastest.count, fastest.std),
	})

	if len(drivers) > 1 {
		second := drivers[1]
		gap := second.avg - fastest.avg
		gapPercent := (gap / fastest.avg) * 100

		report.Insights = append(report.Insights, Insight{
			Type:    "⚡ Performance Gap",
			Insight: fmt.Sprintf("%s is %.3fs (%.2f%%) faster than %s on average", fastest.name, gap, gapPercent, second.name),
			Details: fmt.Sprintf("This %.3fs advantage translates to significant track position over a full race distance.", gap),
		})
	}

	if consistent, ok := mostConsistent(drivers); ok {
		report.Insights = append(report.Insights, Insight{
			Type:    "🎯 Most Consistent Driver",
			Insight: fmt.Sprintf("%s shows exceptional consistency with only %.3fs variation between laps", consistent.name, consistent.std),
			Details: "Low variation indicates predictable pace and excellent car control throughout stints.",
		})
	}

	top := drivers
	if len(top) > chartTopDrivers {
		top = top[:chartTopDrivers]
	}
	entries := make([]DriverChartEntry, 0, len(top))
	for _, d := range top {
		entries = append(entries, DriverChartEntry{
			Driver:        d.name,
			AvgLapTime:    d.avg,
			FastestLap:    d.min,
			LapsCompleted: d.count,
		})
	}
	report.Charts.DriverPerformance = entries
}

func (e *Engine) analyzeTeams(table *Table, roles Roles, report *Report) {
	if roles.Team == "" || roles.LapTime == "" {
		return
	}

	teams := e.groupBy(table, roles.Team, roles.LapTime)
	if len(teams) == 0 {
		e.logger.Debug("Team analysis skipped: no numeric lap times")
		return
	}
	sortByAvg(teams)

	fastest := teams[0]
	report.Insights = append(report.Insights, Insight{
		Type:    "🏎 Fastest Team",
		Insight: fmt.Sprintf("%s leads constructor performance with %.3fs average lap time", fastest.name, fastest.avg),
		Details: fmt.Sprintf("Team's best lap: %.3fs. Data from %d combined laps.", fastest.min, fastest.count),
	})

	if len(teams) > 1 {
		slowest := teams[len(teams)-1]
		spread := slowest.avg - fastest.avg

		report.Insights = append(report.Insights, Insight{
			Type:    "📊 Constructor Spread",
			Insight: fmt.Sprintf("%.3fs separates %s from %s - showing the competitive gap in the field", spread, fastest.name, slowest.name),
			Details: fmt.Sprintf("The top team is %.1f%% faster than the slowest team.", (spread/slowest.avg)*100),
		})
	}

	entries := make([]TeamChartEntry, 0, len(teams))
	for _, t := range teams {
		entries = append(entries, TeamChartEntry{
			Team:       t.name,
			AvgLapTime: t.avg,
			BestLap:    t.min,
		})
	}
	report.Charts.TeamPerformance = entries
}

func (e *Engine) analyzeCircuits(table *Table, roles Roles, report *Report) {
	if roles.Circuit == "" || roles.LapTime == "" {
		return
	}

	// Circuits stay in name order; the chart compares tracks rather
	// than ranking them.
	circuits := e.groupBy(table, roles.Circuit, roles.LapTime)
	if len(circuits) == 0 {
		e.logger.Debug("Circuit analysis skipped: no numeric lap times")
		return
	}

	fastest, slowest := circuits[0], circuits[0]
	for _, c := range circuits[1:] {
		if c.avg < fastest.avg {
			fastest = c
		}
		if c.avg > slowest.avg {
			slowest = c
		}
	}

	report.Insights = append(report.Insights, Insight{
		Type:    "🏎️ Fastest Circuit",
		Insight: fmt.Sprintf("%s is the fastest track with %.3fs average lap time", fastest.name, fastest.avg),
		Details: fmt.Sprintf("Compared to %s (%.3fs), drivers are %.3fs quicker per lap.", slowest.name, slowest.avg, slowest.avg-fastest.avg),
	})

	if len(circuits) > 1 {
		report.Insights = append(report.Insights, Insight{
			Type:    "🌍 Track Variety",
			Insight: fmt.Sprintf("%d circuits analyzed with %.3fs variation in lap times", len(circuits), slowest.avg-fastest.avg),
			Details: "This variation reflects different track characteristics - high-speed circuits vs technical tracks.",
		})
	}

	entries := make([]CircuitChartEntry, 0, len(circuits))
	for _, c := range circuits {
		entries = append(entries, CircuitChartEntry{
			Circuit:    c.name,
			AvgLapTime: c.avg,
			FastestLap: c.min,
			Laps:       c.count,
		})
	}
	report.Charts.CircuitComparison = entries
}

func (e *Engine) analyzePoints(table *Table, roles Roles, report *Report) {
	if roles.Driver == "" || roles.Points == "" {
		return
	}

	driverIdx := table.columnIndex(roles.Driver)
	pointsIdx := table.columnIndex(roles.Points)
	if driverIdx < 0 || pointsIdx < 0 {
		return
	}

	// Points totals accumulate exactly; half points from shortened
	// races must not drift through float addition.
	totals := make(map[string]decimal.Decimal)
	for _, row := range table.Rows {
		v, ok := parseNumber(row[pointsIdx])
		if !ok {
			continue
		}
		name := row[driverIdx]
		totals[name] = totals[name].Add(decimal.NewFromFloat(v))
	}
	if len(totals) == 0 {
		e.logger.Debug("Points analysis skipped: no numeric points")
		return
	}

	type standing struct {
		name   string
		points decimal.Decimal
	}
	standings := make([]standing, 0, len(totals))
	grandTotal := decimal.Zero
	for name, points := range totals {
		standings = append(standings, standing{name: name, points: points})
		grandTotal = grandTotal.Add(points)
	}
	sort.Slice(standings, func(i, j int) bool {
		if cmp := standings[i].points.Cmp(standings[j].points); cmp != 0 {
			return cmp > 0
		}
		return standings[i].name < standings[j].name
	})

	leader := standings[0]
	report.Insights = append(report.Insights, Insight{
		Type:    "👑 Championship Leader",
		Insight: fmt.Sprintf("%s leads the standings with %d points", leader.name, leader.points.IntPart()),
		Details: fmt.Sprintf("Total points across all drivers: %d", grandTotal.IntPart()),
	})

	if len(standings) > 1 {
		second := standings[1]
		gap := leader.points.Sub(second.points)

		report.Insights = append(report.Insights, Insight{
			Type:    "🏆 Title Fight",
			Insight: fmt.Sprintf("%d points separate %s from %s in championship battle", gap.IntPart(), leader.name, second.name),
			Details: fmt.Sprintf("With %d points per win, this is approximately %.1f race wins advantage.", pointsPerWin, gap.InexactFloat64()/pointsPerWin),
		})
	}
}

func (e *Engine) analyzePace(table *Table, roles Roles, report *Report) {
	if roles.Driver == "" || roles.LapTime == "" || roles.LapNumber == "" {
		return
	}

	timeIdx := table.columnIndex(roles.LapTime)
	lapIdx := table.columnIndex(roles.LapNumber)
	if timeIdx < 0 || lapIdx < 0 {
		return
	}

	var early, late []float64
	for _, row := range table.Rows {
		lapTime, ok := parseNumber(row[timeIdx])
		if !ok {
			continue
		}
		lapNumber, ok := parseNumber(row[lapIdx])
		if !ok {
			continue
		}
		if lapNumber <= earlyStintLastLap {
			early = append(early, lapTime)
		} else {
			late = append(late, lapTime)
		}
	}

	earlyAvg, err := stats.Mean(early)
	if err != nil {
		return
	}
	lateAvg, err := stats.Mean(late)
	if err != nil {
		return
	}

	degradation := lateAvg - earlyAvg
	if degradation > e.degradationThreshold {
		report.Insights = append(report.Insights, Insight{
			Type:    "⏱️ Tire Degradation",
			Insight: fmt.Sprintf("Lap times degrade by %.3fs from early to late stint", degradation),
			Details: fmt.Sprintf("Early laps (1-%d): %.3fs avg, Later laps: %.3fs avg - indicating tire wear.", earlyStintLastLap, earlyAvg, lateAvg),
		})
	} else {
		report.Insights = append(report.Insights, Insight{
			Type:    "⏱️ Consistent Pace",
			Insight: fmt.Sprintf("Minimal pace drop-off of only %.3fs throughout the stint", degradation),
			Details: "Stable lap times suggest good tire management or fresh compound usage.",
		})
	}
}

func (e *Engine) analyzeOverall(table *Table, roles Roles, report *Report) {
	if roles.LapTime == "" {
		return
	}

	values := table.numericColumn(roles.LapTime)
	if len(values) == 0 {
		e.logger.Debug("Overall statistics skipped: no numeric lap times")
		return
	}

	fastest, err := stats.Min(values)
	if err != nil {
		return
	}
	slowest, err := stats.Max(values)
	if err != nil {
		return
	}
	avg, err := stats.Mean(values)
	if err != nil {
		return
	}
	median, err := stats.Median(values)
	if err != nil {
		return
	}

	report.Insights = append(report.Insights, Insight{
		Type:    "📈 Overall Lap Time Statistics",
		Insight: fmt.Sprintf("Track record: %.3fs | Average: %.3fs | Median: %.3fs", fastest, avg, median),
		Details: fmt.Sprintf("Lap time range: %.3fs across all %d laps analyzed.", slowest-fastest, len(table.Rows)),
	})
}

func (e *Engine) analyzeDates(table *Table, roles Roles, report *Report) {
	if roles.Date == "" {
		return
	}

	idx := table.columnIndex(roles.Date)
	if idx < 0 {
		return
	}

	var first, last time.Time
	unique := make(map[time.Time]struct{})
	for _, row := range table.Rows {
		t, ok := parseDate(row[idx])
		if !ok {
			continue
		}
		unique[t] = struct{}{}
		if first.IsZero() || t.Before(first) {
			first = t
		}
		if last.IsZero() || t.After(last) {
			last = t
		}
	}
	if len(unique) == 0 {
		e.logger.Debug("Date analysis skipped: no parseable dates")
		return
	}

	totalDays := int(last.Sub(first).Hours() / 24)
	report.Insights = append(report.Insights, Insight{
		Type:    "📅 Time Period",
		Insight: fmt.Sprintf("Data spans from %s to %s (%d days)", first.Format("2006-01-02"), last.Format("2006-01-02"), totalDays),
		Details: fmt.Sprintf("Covers %d unique dates with racing activity.", len(unique)),
	})
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortByAvg orders groups fastest first, ties broken by name.
func sortByAvg(groups []groupStat) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].avg != groups[j].avg {
			return groups[i].avg < groups[j].avg
		}
		return groups[i].name < groups[j].name
	})
}

// mostConsistent picks the group with the smallest sample deviation.
// Single-lap groups have no deviation and never win.
func mostConsistent(groups []groupStat) (groupStat, bool) {
	var best groupStat
	found := false
	for _, g := range groups {
		if !g.hasStd {
			continue
		}
		if !found || g.std < best.std || (g.std == best.std && g.name < best.name) {
			best = g
			found = true
		}
	}
	return best, found
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
