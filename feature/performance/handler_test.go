package performance

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	svc := setupService(t, nil, Config{})
	feature := NewFeature(svc)
	require.True(t, feature.IsEnabled())
	assert.Equal(t, "performance", feature.Name())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, svc
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestHandleImport_Multipart(t *testing.T) {
	app, _ := setupTestApp(t)

	body, contentType := multipartBody(t, "file", "week1.csv", sampleCSV)
	req := httptest.NewRequest("POST", "/performance/import", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report ImportReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "week1.csv", report.Source)
	assert.True(t, report.Applied)
	assert.Equal(t, 2, report.Summary.Matched)
	assert.Len(t, report.Summary.Missing, 1)
}

func TestHandleImport_RawBodyDryRun(t *testing.T) {
	app, svc := setupTestApp(t)

	req := httptest.NewRequest("POST", "/performance/import?dry_run=true", strings.NewReader(sampleCSV))
	req.Header.Set("Content-Type", "text/csv")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report ImportReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.True(t, report.DryRun)
	assert.False(t, report.Applied)

	e1, err := svc.entries.Get(req.Context(), "e1")
	require.NoError(t, err)
	assert.Empty(t, e1.Analytics)
}

func TestHandleImport_BadRequests(t *testing.T) {
	app, _ := setupTestApp(t)

	t.Run("EmptyBody", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/performance/import", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("WrongField", func(t *testing.T) {
		body, contentType := multipartBody(t, "upload", "week1.csv", sampleCSV)
		req := httptest.NewRequest("POST", "/performance/import", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestHandleExport(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/performance/import", strings.NewReader(sampleCSV))
	_, err := app.Test(req)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/performance/export", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "performance.csv")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "entry_id,date,platform,caption,url,ctr,impressions", lines[0])
	assert.Contains(t, lines, "e1,2024-01-05,Instagram,Launch day,,4.5%,1200")
}

func TestHandleHistory(t *testing.T) {
	app, _ := setupTestApp(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/performance/import?dry_run=true", strings.NewReader(sampleCSV+strings.Repeat("\n", i)))
		_, err := app.Test(req)
		require.NoError(t, err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/performance/imports?limit=1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var runs []ImportRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	assert.Len(t, runs, 1)
}

func TestFeature_Disabled(t *testing.T) {
	f := NewFeature(nil)
	assert.False(t, f.IsEnabled())
}
