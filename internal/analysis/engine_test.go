package analysis

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestEngine() *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewEngine(0.5, logger)
}

func mustParse(t *testing.T, csvData string) *Table {
	t.Helper()
	table, err := ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	return table
}

func findInsight(report *Report, insightType string) (Insight, bool) {
	for _, in := range report.Insights {
		if in.Type == insightType {
			return in, true
		}
	}
	return Insight{}, false
}

func TestAnalyzeDelimiterGuard(t *testing.T) {
	table := mustParse(t, "driver;lap_time\nHamilton;90.5\n")
	report := newTestEngine().Analyze(table)

	if len(report.Insights) != 1 {
		t.Fatalf("expected a single parsing error insight, got %d", len(report.Insights))
	}
	if report.Insights[0].Type != "⚠️ CSV Parsing Error" {
		t.Errorf("insight type = %q", report.Insights[0].Type)
	}
	if report.Charts.DriverPerformance != nil || report.Charts.TeamPerformance != nil {
		t.Error("expected no charts for a misparsed file")
	}
	if report.Summary.TotalColumns != 1 {
		t.Errorf("summary columns = %d, want 1", report.Summary.TotalColumns)
	}
}

func TestAnalyzeOverview(t *testing.T) {
	table := mustParse(t, "driver,lap_time\nA,90\nB,91\nC,92\n")
	report := newTestEngine().Analyze(table)

	overview, ok := findInsight(report, "Dataset Overview")
	if !ok {
		t.Fatal("missing overview insight")
	}
	if overview.Insight != "Analyzing 3 records across 2 data fields" {
		t.Errorf("overview = %q", overview.Insight)
	}
	if overview.Details != "Data contains: driver, lap_time" {
		t.Errorf("overview details = %q", overview.Details)
	}
}

func TestAnalyzePerformanceGap(t *testing.T) {
	csvData := "driver,lap_time\n" +
		"X,90\nX,91\n" +
		"Y,94\nY,95\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	fastest, ok := findInsight(report, "🏆 Fastest Driver")
	if !ok {
		t.Fatal("missing fastest driver insight")
	}
	want := "X dominates with an average lap time of 90.500s (best: 90.000s)"
	if fastest.Insight != want {
		t.Errorf("fastest insight = %q, want %q", fastest.Insight, want)
	}
	want = "Based on 2 laps. Their consistency (std dev: 0.707s) shows reliable performance."
	if fastest.Details != want {
		t.Errorf("fastest details = %q, want %q", fastest.Details, want)
	}

	gap, ok := findInsight(report, "⚡ Performance Gap")
	if !ok {
		t.Fatal("missing performance gap insight")
	}
	want = "X is 4.000s (4.42%) faster than Y on average"
	if gap.Insight != want {
		t.Errorf("gap insight = %q, want %q", gap.Insight, want)
	}
}

func TestAnalyzeDriverChartCappedAndSorted(t *testing.T) {
	var b strings.Builder
	b.WriteString("driver,lap_time\n")
	// Drivers D00 (fastest) through D11 (slowest), two laps each.
	for i := 0; i < 12; i++ {
		name := []byte{'D', byte('0' + i/10), byte('0' + i%10)}
		base := 90.0 + float64(i)
		b.WriteString(string(name))
		b.WriteString(",")
		b.WriteString(formatForTest(base))
		b.WriteString("\n")
		b.WriteString(string(name))
		b.WriteString(",")
		b.WriteString(formatForTest(base + 1))
		b.WriteString("\n")
	}

	report := newTestEngine().Analyze(mustParse(t, b.String()))

	chart := report.Charts.DriverPerformance
	if len(chart) != 10 {
		t.Fatalf("chart has %d entries, want 10", len(chart))
	}
	for i := 1; i < len(chart); i++ {
		if chart[i-1].AvgLapTime > chart[i].AvgLapTime {
			t.Errorf("chart not sorted ascending at %d: %v > %v", i, chart[i-1].AvgLapTime, chart[i].AvgLapTime)
		}
	}
	if chart[0].Driver != "D00" {
		t.Errorf("fastest driver in chart = %q, want D00", chart[0].Driver)
	}
	if chart[0].LapsCompleted != 2 {
		t.Errorf("laps completed = %d, want 2", chart[0].LapsCompleted)
	}
}

func TestAnalyzeMostConsistentExcludesSingleLap(t *testing.T) {
	// C has one lap and no deviation; A varies less than B.
	csvData := "driver,lap_time\n" +
		"A,90\nA,90.1\n" +
		"B,91\nB,93\n" +
		"C,89\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	consistent, ok := findInsight(report, "🎯 Most Consistent Driver")
	if !ok {
		t.Fatal("missing consistency insight")
	}
	if !strings.HasPrefix(consistent.Insight, "A ") {
		t.Errorf("consistency insight = %q, want driver A", consistent.Insight)
	}
}

func TestAnalyzeTeams(t *testing.T) {
	csvData := "team,lap_time\n" +
		"Red Bull,90\nRed Bull,91\n" +
		"Williams,95\nWilliams,96\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	fastest, ok := findInsight(report, "🏎 Fastest Team")
	if !ok {
		t.Fatal("missing fastest team insight")
	}
	want := "Red Bull leads constructor performance with 90.500s average lap time"
	if fastest.Insight != want {
		t.Errorf("team insight = %q, want %q", fastest.Insight, want)
	}

	spread, ok := findInsight(report, "📊 Constructor Spread")
	if !ok {
		t.Fatal("missing constructor spread insight")
	}
	want = "5.000s separates Red Bull from Williams - showing the competitive gap in the field"
	if spread.Insight != want {
		t.Errorf("spread insight = %q, want %q", spread.Insight, want)
	}

	if len(report.Charts.TeamPerformance) != 2 {
		t.Fatalf("team chart has %d entries", len(report.Charts.TeamPerformance))
	}
	if report.Charts.TeamPerformance[0].Team != "Red Bull" {
		t.Errorf("first team = %q", report.Charts.TeamPerformance[0].Team)
	}
}

func TestAnalyzeCircuitsAlphabeticalChart(t *testing.T) {
	csvData := "circuit,lap_time\n" +
		"Monza,80\n" +
		"Monaco,95\n" +
		"Spa,100\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	fastest, ok := findInsight(report, "🏎️ Fastest Circuit")
	if !ok {
		t.Fatal("missing fastest circuit insight")
	}
	if !strings.HasPrefix(fastest.Insight, "Monza ") {
		t.Errorf("fastest circuit insight = %q", fastest.Insight)
	}

	chart := report.Charts.CircuitComparison
	if len(chart) != 3 {
		t.Fatalf("circuit chart has %d entries", len(chart))
	}
	wantOrder := []string{"Monaco", "Monza", "Spa"}
	for i, want := range wantOrder {
		if chart[i].Circuit != want {
			t.Errorf("chart[%d] = %q, want %q", i, chart[i].Circuit, want)
		}
	}
}

func TestAnalyzeChampionshipPoints(t *testing.T) {
	csvData := "driver,points\n" +
		"A,100\nA,100\n" +
		"B,75\nB,75\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	leader, ok := findInsight(report, "👑 Championship Leader")
	if !ok {
		t.Fatal("missing championship leader insight")
	}
	if leader.Insight != "A leads the standings with 200 points" {
		t.Errorf("leader insight = %q", leader.Insight)
	}
	if leader.Details != "Total points across all drivers: 350" {
		t.Errorf("leader details = %q", leader.Details)
	}

	fight, ok := findInsight(report, "🏆 Title Fight")
	if !ok {
		t.Fatal("missing title fight insight")
	}
	if fight.Insight != "50 points separate A from B in championship battle" {
		t.Errorf("fight insight = %q", fight.Insight)
	}
	if fight.Details != "With 25 points per win, this is approximately 2.0 race wins advantage." {
		t.Errorf("fight details = %q", fight.Details)
	}
}

func TestAnalyzePaceDegradation(t *testing.T) {
	var b strings.Builder
	b.WriteString("driver,lap_time,lap_number\n")
	for lap := 1; lap <= 10; lap++ {
		b.WriteString("A,90,")
		b.WriteString(formatForTest(float64(lap)))
		b.WriteString("\n")
	}
	for lap := 11; lap <= 20; lap++ {
		b.WriteString("A,91,")
		b.WriteString(formatForTest(float64(lap)))
		b.WriteString("\n")
	}

	report := newTestEngine().Analyze(mustParse(t, b.String()))

	degradation, ok := findInsight(report, "⏱️ Tire Degradation")
	if !ok {
		t.Fatal("missing degradation insight")
	}
	if degradation.Insight != "Lap times degrade by 1.000s from early to late stint" {
		t.Errorf("degradation insight = %q", degradation.Insight)
	}
}

func TestAnalyzePaceConsistent(t *testing.T) {
	csvData := "driver,lap_time,lap_number\n" +
		"A,90,5\nA,90.2,15\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	if _, ok := findInsight(report, "⏱️ Consistent Pace"); !ok {
		t.Error("missing consistent pace insight")
	}
	if _, ok := findInsight(report, "⏱️ Tire Degradation"); ok {
		t.Error("unexpected degradation insight below threshold")
	}
}

func TestAnalyzeOverallStatistics(t *testing.T) {
	csvData := "lap_time_seconds\n88\n90\n92\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	overall, ok := findInsight(report, "📈 Overall Lap Time Statistics")
	if !ok {
		t.Fatal("missing overall statistics insight")
	}
	want := "Track record: 88.000s | Average: 90.000s | Median: 90.000s"
	if overall.Insight != want {
		t.Errorf("overall insight = %q, want %q", overall.Insight, want)
	}
	if overall.Details != "Lap time range: 4.000s across all 3 laps analyzed." {
		t.Errorf("overall details = %q", overall.Details)
	}
}

func TestAnalyzeDates(t *testing.T) {
	csvData := "date\n2024-03-01\n2024-03-15\nnot-a-date\n2024-03-01\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	period, ok := findInsight(report, "📅 Time Period")
	if !ok {
		t.Fatal("missing time period insight")
	}
	if period.Insight != "Data spans from 2024-03-01 to 2024-03-15 (14 days)" {
		t.Errorf("period insight = %q", period.Insight)
	}
	if period.Details != "Covers 2 unique dates with racing activity." {
		t.Errorf("period details = %q", period.Details)
	}
}

func TestAnalyzeSkipsNonNumericLapTimes(t *testing.T) {
	csvData := "driver,lap_time\nA,fast\nB,quick\n"
	report := newTestEngine().Analyze(mustParse(t, csvData))

	if _, ok := findInsight(report, "🏆 Fastest Driver"); ok {
		t.Error("driver analysis should skip when no lap times parse")
	}
	if _, ok := findInsight(report, "Dataset Overview"); !ok {
		t.Error("overview should still be present")
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	csvData := "driver,team,lap_time,points,lap_number,date\n" +
		"A,Red Bull,90.1,25,1,2024-03-01\n" +
		"A,Red Bull,90.5,25,11,2024-03-15\n" +
		"B,Mercedes,91.2,18,1,2024-03-01\n" +
		"B,Mercedes,91.8,18,11,2024-03-15\n"

	engine := newTestEngine()
	first := engine.Analyze(mustParse(t, csvData))
	second := engine.Analyze(mustParse(t, csvData))

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated analysis of identical input produced different reports")
	}
}

func formatForTest(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
