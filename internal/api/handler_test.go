package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridline/internal/analysis"
	"github.com/yourusername/gridline/internal/config"
	"github.com/yourusername/gridline/internal/database"
	"github.com/yourusername/gridline/internal/ergast"
	"github.com/yourusername/gridline/internal/repository"
	"github.com/yourusername/gridline/internal/service"
)

func newTestServer(t *testing.T, upstream http.Handler) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	db, err := database.New(&config.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		ReadConnections: 2,
	}, logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	upstreamServer := httptest.NewServer(upstream)
	t.Cleanup(upstreamServer.Close)

	httpCfg := ergast.DefaultHTTPClientConfig()
	httpCfg.RateLimit = 1000
	httpClient := ergast.NewRateLimitedClient(httpCfg, logger)
	t.Cleanup(func() { httpClient.Close() })
	client := ergast.NewClient(upstreamServer.URL, "", httpClient, logger)

	f1Svc := service.NewF1Service(client, repository.NewSQLiteSnapshotRepository(db), 2024, 10, time.Minute, logger)
	analysisSvc := service.NewAnalysisService(
		repository.NewSQLiteFileRepository(db),
		analysis.NewEngine(0.5, logger),
		logger,
	)

	router := NewRouter(
		NewF1Handler(f1Svc, logger),
		NewFileHandler(analysisSvc, logger),
		db,
		RouterConfig{CORSOrigins: []string{"*"}, MetricsEnabled: true, MetricsPath: "/metrics"},
		logger,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func emptyUpstream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"MRData": {}}`))
	})
}

func getJSON(t *testing.T, url string, wantStatus int) map[string]interface{} {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	body := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func uploadFile(t *testing.T, serverURL string, filename string, content string) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	resp, err := http.Post(serverURL+"/api/files/upload", writer.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}

	body := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return body
}

func TestRootBanner(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	body := getJSON(t, server.URL+"/", http.StatusOK)
	if body["message"] != "F1 Dashboard API with Jolpica (Ergast)" {
		t.Errorf("message = %v", body["message"])
	}
	if body["status"] != "running" || body["data_range"] != "1950-present" {
		t.Errorf("banner = %v", body)
	}
}

func TestHealthAndReady(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	health := getJSON(t, server.URL+"/health", http.StatusOK)
	if health["status"] != "healthy" {
		t.Errorf("health = %v", health)
	}

	ready := getJSON(t, server.URL+"/ready", http.StatusOK)
	if ready["status"] != "ready" {
		t.Errorf("ready = %v", ready)
	}
}

func TestInsightsWithoutCachedData(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	body := getJSON(t, server.URL+"/api/f1/insights", http.StatusNotFound)
	if body["error"] != "No cached data found. Please fetch data first." {
		t.Errorf("error = %v", body["error"])
	}
}

func TestFetchDataThenInsights(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "results.json") {
			w.Write([]byte(`{"MRData": {"RaceTable": {"Races": [{
				"season": "2024", "round": "1", "raceName": "Bahrain Grand Prix", "date": "2024-03-02",
				"Circuit": {"circuitName": "Bahrain International Circuit", "Location": {"locality": "Sakhir", "country": "Bahrain"}},
				"Results": [{"position": "1", "points": "25", "status": "Finished",
					"Driver": {"givenName": "Max", "familyName": "Verstappen", "permanentNumber": "33"},
					"Constructor": {"name": "Red Bull"}}]
			}]}}}`))
			return
		}
		w.Write([]byte(`{"MRData": {"StandingsTable": {"StandingsLists": [{
			"DriverStandings": [{"position": "1", "points": "51", "wins": "2",
				"Driver": {"givenName": "Max", "familyName": "Verstappen", "permanentNumber": "33"},
				"Constructors": [{"name": "Red Bull"}]}],
			"ConstructorStandings": [{"position": "1", "points": "87", "wins": "2",
				"Constructor": {"name": "Red Bull"}}]
		}]}}}`))
	})

	server := newTestServer(t, upstream)

	resp, err := http.Post(server.URL+"/api/f1/fetch-data", "application/json", nil)
	if err != nil {
		t.Fatalf("POST fetch-data: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch-data status = %d", resp.StatusCode)
	}
	fetchBody := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&fetchBody); err != nil {
		t.Fatalf("decode fetch response: %v", err)
	}
	if fetchBody["success"] != true {
		t.Errorf("fetch success = %v", fetchBody["success"])
	}

	insights := getJSON(t, server.URL+"/api/f1/insights", http.StatusOK)
	if insights["insights"] == nil || insights["data"] == nil {
		t.Errorf("insights response missing keys: %v", insights)
	}
}

func TestHistoricalInvalidYear(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	body := getJSON(t, server.URL+"/api/f1/historical/nineteen-eighty-eight", http.StatusBadRequest)
	if body["error"] != "Invalid year" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestFileLifecycle(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	uploaded := uploadFile(t, server.URL, "laps.csv", "driver,lap_time\nX,90\nX,91\nY,94\nY,95\n")
	if uploaded["success"] != true || uploaded["file_type"] != "csv" {
		t.Fatalf("upload response = %v", uploaded)
	}
	fileID := int64(uploaded["file_id"].(float64))
	if fileID == 0 {
		t.Fatal("upload returned no file ID")
	}

	list := getJSON(t, server.URL+"/api/files", http.StatusOK)
	files := list["files"].([]interface{})
	if len(files) != 1 {
		t.Fatalf("file list = %v", files)
	}
	listed := files[0].(map[string]interface{})
	if _, hasData := listed["data"]; hasData {
		t.Error("file list leaked raw content")
	}

	analyzeBody := getJSON(t, server.URL+"/api/files/1/analyze", http.StatusOK)
	if analyzeBody["success"] != true {
		t.Fatalf("analyze response = %v", analyzeBody)
	}
	if analyzeBody["analysis"] == nil {
		t.Fatal("analyze response missing analysis")
	}

	got := getJSON(t, server.URL+"/api/files/1", http.StatusOK)
	if got["data"] == nil || got["insights"] == nil {
		t.Errorf("file detail = %v", got)
	}

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/files/1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE file: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	getJSON(t, server.URL+"/api/files/1", http.StatusNotFound)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "huge.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	chunk := bytes.Repeat([]byte("a"), 1<<20)
	for written := 0; written <= 32<<20; written += len(chunk) {
		if _, err := part.Write(chunk); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	writer.Close()

	// The server may cut the connection before the body finishes
	// uploading; either way the request must not succeed.
	resp, err := http.Post(server.URL+"/api/files/upload", writer.FormDataContentType(), &buf)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusRequestEntityTooLarge {
			t.Fatalf("upload status = %d, want 413", resp.StatusCode)
		}
	}

	// Nothing truncated was persisted.
	list := getJSON(t, server.URL+"/api/files", http.StatusOK)
	if files := list["files"].([]interface{}); len(files) != 0 {
		t.Errorf("oversized upload was stored: %v", files)
	}
}

func TestAnalyzeNonCSVFile(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	uploaded := uploadFile(t, server.URL, "data.json", `{"a": 1}`)
	fileID := int64(uploaded["file_id"].(float64))

	body := getJSON(t, server.URL+"/api/files/"+itoa(fileID)+"/analyze", http.StatusOK)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["message"] != "Only CSV files can be analyzed at this time" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestAttachInsightsEndpoint(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	uploaded := uploadFile(t, server.URL, "notes.txt", "text")
	fileID := int64(uploaded["file_id"].(float64))

	payload := strings.NewReader(`{"insights": "manually written"}`)
	resp, err := http.Post(server.URL+"/api/files/"+itoa(fileID)+"/insights", "application/json", payload)
	if err != nil {
		t.Fatalf("POST insights: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("insights status = %d", resp.StatusCode)
	}

	got := getJSON(t, server.URL+"/api/files/"+itoa(fileID), http.StatusOK)
	if got["insights"] != "manually written" {
		t.Errorf("insights = %v", got["insights"])
	}

	// Attaching to a missing file is a 404, not a silent success.
	resp2, err := http.Post(server.URL+"/api/files/999/insights", "application/json",
		strings.NewReader(`{"insights": "x"}`))
	if err != nil {
		t.Fatalf("POST insights (missing): %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("missing file insights status = %d, want 404", resp2.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, emptyUpstream())

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
