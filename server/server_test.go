package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sla-pipeline/config"
	"sla-pipeline/models"
	"sla-pipeline/pipeline"
	"sla-pipeline/server"
)

const chatHeader = "DATE,HOUR,SKILL,CAMPAIGN,INTERACTIONS,DISPOSITION,CHAT QUEUE TIME,HANDLE TIME,AFTER CHAT WORK\n"

func newTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()

	current := t.TempDir()
	before := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(current, "now.csv"), []byte(chatHeader+
		"01/02/2025,10:00,A,Retail,100,Resolved,0:01:00,0:10:00,0:02:00\n"+
		"01/02/2025,8:00,B,Retail,50,Unresolved,0:02:00,0:08:00,0:01:00\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(before, "then.csv"), []byte(chatHeader+
		"01/01/2025,10:00,A,Retail,80,Resolved,0:00:30,0:09:00,0:01:30\n"), 0o644))

	cfg := &config.Config{AllowedOrigins: []string{"*"}}
	registry := newRegistry(models.Chat, current, before)

	return server.New(registry, cfg, zerolog.Nop()).Router(), current
}

func newRegistry(schema models.Schema, current, before string) *pipeline.Registry {
	r := &pipeline.Registry{}
	r.Add(pipeline.New(schema, current, before, zerolog.Nop()))
	return r
}

func getReport(t *testing.T, handler http.Handler, path string) (models.Report, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var report models.Report
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	}
	return report, rec
}

func TestHandleReport(t *testing.T) {
	handler, _ := newTestServer(t)

	report, rec := getReport(t, handler, "/api/dashboards/chat/report")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "chat", report.Dashboard)
	require.Len(t, report.Summary, 2)
	assert.Equal(t, 150, report.Summary[0].TotalVolume)
	assert.Equal(t, []string{"8:00", "10:00"}, report.Options.Hours)
}

func TestHandleReportFilters(t *testing.T) {
	handler, _ := newTestServer(t)

	tests := map[string]struct {
		path           string
		expectedVolume int
	}{
		"ByPeriod":    {"/api/dashboards/chat/report?period=Before", 80},
		"BySkill":     {"/api/dashboards/chat/report?skill=A&period=Current", 100},
		"ByPeak":      {"/api/dashboards/chat/report?peak=Off-Peak", 50},
		"ByDateRange": {"/api/dashboards/chat/report?from=2025-02-01&to=2025-02-01", 150},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			report, rec := getReport(t, handler, tc.path)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Len(t, report.Summary, 1)
			assert.Equal(t, tc.expectedVolume, report.Summary[0].TotalVolume)
		})
	}
}

func TestHandleReportBadDate(t *testing.T) {
	handler, _ := newTestServer(t)
	_, rec := getReport(t, handler, "/api/dashboards/chat/report?from=02/01/2025")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleReportUnknownDashboard(t *testing.T) {
	handler, _ := newTestServer(t)
	_, rec := getReport(t, handler, "/api/dashboards/email/report")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleReportNoData(t *testing.T) {
	cfg := &config.Config{AllowedOrigins: []string{"*"}}
	registry := newRegistry(models.Chat,
		filepath.Join(t.TempDir(), "a"), filepath.Join(t.TempDir(), "b"))
	handler := server.New(registry, cfg, zerolog.Nop()).Router()

	report, rec := getReport(t, handler, "/api/dashboards/chat/report")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chat", report.Dashboard)
	assert.Empty(t, report.Summary)
}

func TestHandleRefresh(t *testing.T) {
	handler, current := newTestServer(t)

	report, _ := getReport(t, handler, "/api/dashboards/chat/report")
	require.Equal(t, 150, report.Summary[0].TotalVolume)

	require.NoError(t, os.WriteFile(filepath.Join(current, "more.csv"), []byte(chatHeader+
		"02/02/2025,11:00,A,Retail,30,Resolved,0:01:00,0:07:00,0:02:00\n"), 0o644))

	req := httptest.NewRequest(http.MethodPost, "/api/dashboards/chat/refresh", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	refreshed, _ := getReport(t, handler, "/api/dashboards/chat/report")
	assert.Equal(t, 180, refreshed.Summary[0].TotalVolume)
}

func TestHandleList(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboards/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"chat"}, body["dashboards"])
}
