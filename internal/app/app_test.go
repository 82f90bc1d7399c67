package app_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/app"
	"github.com/kurochkinivan/receipt_reporter/internal/config"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelReply = `{"model":"claude-test","content":[{"type":"text","text":"` +
	"```json\\n{\\\"vendor_name\\\":\\\"Shufersal\\\",\\\"date\\\":\\\"2024-03-15\\\",\\\"total_line\\\":117.0}\\n```" +
	`"}]}`

func writePNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.Black)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func modelServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(modelReply))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func classificationReply(t *testing.T) []byte {
	t.Helper()

	text := `{"classification":{"primary_category":"meals_entertainment","expense_type":"mixed",` +
		`"business_percentage":50,"confidence":0.9,"requires_clarification":true},"transaction_info":{"amount":117.0,"vat_amount":17.0,"currency":"ILS"},` +
		`"questions_for_user":["Who attended the meal?"]}`

	reply, err := json.Marshal(map[string]any{
		"model":   "claude-test",
		"content": []map[string]any{{"type": "text", "text": text}},
	})
	require.NoError(t, err)

	return reply
}

// classifyingServer answers calls with an attached receipt as extraction
// calls and text-only calls as classification calls.
func classifyingServer(t *testing.T, extractions, classifications *atomic.Int32) *httptest.Server {
	t.Helper()

	classified := classificationReply(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(string(body), `"media_type"`) {
			extractions.Add(1)
			_, _ = w.Write([]byte(modelReply))
			return
		}

		classifications.Add(1)
		_, _ = w.Write(classified)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(inputDir, outputDir, baseURL string) *config.Config {
	return &config.Config{
		App: config.App{
			InputDirectory:  inputDir,
			OutputDirectory: outputDir,
			AuditFormat:     "json",
		},
		Extraction: config.Extraction{
			MaxWorkers:  2,
			MaxAttempts: 2,
			BaseDelay:   time.Millisecond,
		},
		LLM: config.LLM{
			Provider: config.ProviderAnthropic,
			Model:    "claude-test",
			APIKey:   "secret",
			BaseURL:  baseURL,
		},
		Report: config.Report{
			Workbook: true,
		},
	}
}

func TestApp_Extract(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	var calls atomic.Int32
	srv := modelServer(t, &calls)

	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")

	writePNG(t, filepath.Join(inputDir, "a_good.png"))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "b_broken.jpg"), []byte("not an image"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("ignored"), 0o644))

	var out bytes.Buffer
	result, err := app.New(log, testConfig(inputDir, outputDir, srv.URL), &out).Extract(t.Context())
	require.NoError(t, err)

	summary := result.Summary
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "claude-test", summary.Model)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, "a_good.png", summary.Outcomes[0].File.Name)
	assert.Equal(t, "Shufersal", summary.Outcomes[0].Payload["vendor_name"])
	assert.Equal(t, domain.ErrorKindConversion, summary.Outcomes[1].Error.Kind)
	assert.Equal(t, 2, summary.Outcomes[1].Attempts)

	// The broken image never reaches the model.
	assert.Equal(t, int32(1), calls.Load())

	data, err := os.ReadFile(result.ArtifactPath)
	require.NoError(t, err)
	var artifact map[string]any
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, summary.RunID, artifact["run_id"])

	require.Len(t, result.ReportPaths, 1)
	assert.FileExists(t, result.ReportPaths[0])
	assert.Equal(t, ".xlsx", filepath.Ext(result.ReportPaths[0]))

	audits, err := os.ReadDir(filepath.Join(outputDir, "llm_logs"))
	require.NoError(t, err)
	assert.Len(t, audits, 3)

	assert.Contains(t, out.String(), "EXTRACTION COMPLETE")
	assert.Contains(t, out.String(), "b_broken.jpg")
}

func TestApp_Extract_EmptyDirectory(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	var calls atomic.Int32
	srv := modelServer(t, &calls)

	outputDir := t.TempDir()
	cfg := testConfig(t.TempDir(), outputDir, srv.URL)

	result, err := app.New(log, cfg, &bytes.Buffer{}).Extract(t.Context())
	require.NoError(t, err)

	assert.Zero(t, result.Summary.Total)
	assert.Zero(t, result.Summary.Average)
	assert.FileExists(t, result.ArtifactPath)
	assert.Zero(t, calls.Load())
}

func TestApp_Extract_SetupErrors(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	notADir := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	tests := []struct {
		name   string
		modify func(cfg *config.Config)
	}{
		{
			name:   "missing input directory",
			modify: func(cfg *config.Config) { cfg.InputDirectory = filepath.Join(cfg.InputDirectory, "missing") },
		},
		{
			name:   "missing api key",
			modify: func(cfg *config.Config) { cfg.LLM.APIKey = "" },
		},
		{
			name:   "output directory is a file",
			modify: func(cfg *config.Config) { cfg.OutputDirectory = notADir },
		},
		{
			name:   "unknown provider",
			modify: func(cfg *config.Config) { cfg.LLM.Provider = "llama" },
		},
		{
			name:   "unknown audit format",
			modify: func(cfg *config.Config) { cfg.AuditFormat = "xml" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(t.TempDir(), t.TempDir(), "http://127.0.0.1:1")
			tt.modify(cfg)

			_, err := app.New(log, cfg, &bytes.Buffer{}).Extract(t.Context())
			require.ErrorIs(t, err, domain.ErrSetup)
		})
	}
}

func TestApp_Consolidate_NoValidFiles(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	dir := t.TempDir()

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	cfg := testConfig(dir, t.TempDir(), "")

	_, err := app.New(log, cfg, &bytes.Buffer{}).Consolidate(t.Context(), []string{notes, filepath.Join(dir, "missing.xlsx")})
	require.ErrorIs(t, err, domain.ErrSetup)
}

func TestApp_Consolidate_UnreviewedWorkbook(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	var calls atomic.Int32
	srv := modelServer(t, &calls)

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writePNG(t, filepath.Join(inputDir, "receipt.png"))

	cfg := testConfig(inputDir, outputDir, srv.URL)
	a := app.New(log, cfg, &bytes.Buffer{})

	result, err := a.Extract(t.Context())
	require.NoError(t, err)
	require.Len(t, result.ReportPaths, 1)

	// Receipt number and category are left for the reviewer, so nothing
	// can be consolidated yet.
	_, err = a.Consolidate(t.Context(), []string{outputDir})
	require.ErrorIs(t, err, report.ErrNoReceipts)
}

func TestApp_Extract_Classify(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	var extractions, classifications atomic.Int32
	srv := classifyingServer(t, &extractions, &classifications)

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writePNG(t, filepath.Join(inputDir, "receipt.png"))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "broken.jpg"), []byte("not an image"), 0o644))

	cfg := testConfig(inputDir, outputDir, srv.URL)
	cfg.Classify = true

	var out bytes.Buffer
	result, err := app.New(log, cfg, &out).Extract(t.Context())
	require.NoError(t, err)

	// Failed extractions are not classified.
	assert.Equal(t, int32(1), extractions.Load())
	assert.Equal(t, int32(1), classifications.Load())

	require.NotNil(t, result.Classification)
	assert.Empty(t, result.Classification.Failed)

	c := result.Summary.Outcomes[1].Classification
	if result.Summary.Outcomes[0].File.Name == "receipt.png" {
		c = result.Summary.Outcomes[0].Classification
	}
	require.NotNil(t, c)
	assert.Equal(t, "meals_entertainment", c.Category)
	assert.InDelta(t, 58.5, c.DeductibleAmount, 0.001)

	s := result.Classification.Summary
	assert.Equal(t, 1, s.TotalReceipts)
	assert.Equal(t, 1, s.RequiresClarification)

	paths := result.Classification.Paths
	assert.FileExists(t, paths.Receipts)
	assert.FileExists(t, paths.Summary)
	assert.FileExists(t, paths.TaxCSV)

	data, err := os.ReadFile(result.ArtifactPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"classification"`)
	assert.Contains(t, string(data), "meals_entertainment")

	audits, err := os.ReadDir(filepath.Join(outputDir, "llm_logs", "classification"))
	require.NoError(t, err)
	assert.NotEmpty(t, audits)

	assert.Contains(t, out.String(), "CLASSIFICATION COMPLETE")
	assert.Contains(t, out.String(), "1 receipts need clarification")
}

func TestApp_Classify_FromArtifact(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	var extractions, classifications atomic.Int32
	srv := classifyingServer(t, &extractions, &classifications)

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writePNG(t, filepath.Join(inputDir, "receipt.png"))

	cfg := testConfig(inputDir, outputDir, srv.URL)
	extracted, err := app.New(log, cfg, &bytes.Buffer{}).Extract(t.Context())
	require.NoError(t, err)
	assert.Zero(t, classifications.Load())

	classifyCfg := testConfig("", "", srv.URL)
	result, err := app.New(log, classifyCfg, &bytes.Buffer{}).Classify(t.Context(), extracted.ArtifactPath)
	require.NoError(t, err)

	assert.Equal(t, int32(1), classifications.Load())
	assert.Equal(t, 1, result.Summary.TotalReceipts)
	assert.Equal(t, outputDir, filepath.Dir(result.Paths.TaxCSV))

	csv, err := os.ReadFile(result.Paths.TaxCSV)
	require.NoError(t, err)
	assert.Contains(t, string(csv), "receipt.png")
	assert.Contains(t, string(csv), "meals_entertainment")
}

func TestApp_Classify_SetupErrors(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	artifact := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(artifact, []byte(`{"run_id":"r1","outcomes":[]}`), 0o644))

	t.Run("missing artifact", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig("", t.TempDir(), "http://127.0.0.1:1")
		_, err := app.New(log, cfg, &bytes.Buffer{}).Classify(t.Context(), filepath.Join(t.TempDir(), "missing.json"))
		require.ErrorIs(t, err, domain.ErrSetup)
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig("", t.TempDir(), "http://127.0.0.1:1")
		cfg.LLM.APIKey = ""
		_, err := app.New(log, cfg, &bytes.Buffer{}).Classify(t.Context(), artifact)
		require.ErrorIs(t, err, domain.ErrSetup)
	})
}
