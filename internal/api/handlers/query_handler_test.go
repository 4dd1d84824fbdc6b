package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voicefaq/internal/api"
	"voicefaq/internal/api/handlers"
	"voicefaq/internal/models"
	"voicefaq/internal/service"
	"voicefaq/pkg/auth"
	"voicefaq/pkg/config"
	"voicefaq/pkg/stt"
)

type fakePipeline struct {
	calls  []service.RunInput
	seen   map[string]string // uploaded file contents by path, read during Run
	result *models.PipelineResult
	err    error
}

func (f *fakePipeline) Run(_ context.Context, in service.RunInput) (*models.PipelineResult, error) {
	f.calls = append(f.calls, in)
	if f.seen == nil {
		f.seen = map[string]string{}
	}
	for _, p := range []string{in.AudioPath, in.FAQTablePath} {
		if data, err := os.ReadFile(p); err == nil {
			f.seen[p] = string(data)
		}
	}
	return f.result, f.err
}

type fakeLogs struct {
	entries []*models.QueryLog
	err     error
}

func (f *fakeLogs) ListRecent(_ context.Context, limit, offset int) ([]*models.QueryLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.entries) {
		return nil, nil
	}
	end := min(offset+limit, len(f.entries))
	return f.entries[offset:end], nil
}

func (f *fakeLogs) Count(context.Context) (int64, error) {
	return int64(len(f.entries)), f.err
}

type fakePurger struct{ n int }

func (f *fakePurger) Purge() int { return f.n }

var testServerConfig = config.ServerConfig{
	BodyLimit:    4 * 1024 * 1024,
	ReadTimeout:  5 * time.Second,
	WriteTimeout: 5 * time.Second,
}

func newTestApp(t *testing.T, pipeline handlers.Pipeline, admin *handlers.AdminHandler, jwtManager *auth.JWTManager) *fiber.App {
	t.Helper()
	resolve := stt.NewResolver(stt.FactoryConfig{Provider: stt.ProviderOpenAI, DefaultModel: "whisper-1"})
	query := handlers.NewQueryHandler(pipeline, resolve, "data/brand_faq.csv", 3, zap.NewNop())
	if jwtManager == nil {
		jwtManager = auth.NewJWTManager("test-secret", time.Hour)
	}
	return api.SetupRouter(query, admin, jwtManager, &testServerConfig, zap.NewNop())
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &out), string(body))
	}
	return resp.StatusCode, out
}

type part struct {
	field, filename, content string
}

func multipartRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename != "" {
			fw, err := w.CreateFormFile(p.field, p.filename)
			require.NoError(t, err)
			_, err = fw.Write([]byte(p.content))
			require.NoError(t, err)
			continue
		}
		require.NoError(t, w.WriteField(p.field, p.content))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/query", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func tempDirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &fakePipeline{}, nil, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"status": "ok"}, body)
}

func TestQuerySuccessWithDefaultTable(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	pipeline := &fakePipeline{result: &models.PipelineResult{
		Transcription: "What are your vegan options?",
		Intent:        models.IntentMenuQuery,
		Entities:      models.Entities{Diet: "vegan"},
		FAQMatches:    nil,
		Response:      "Vegan options: Salad.",
	}}
	app := newTestApp(t, pipeline, nil, nil)

	status, body := do(t, app, multipartRequest(t, part{field: "audio", filename: "question.wav", content: "RIFFfake"}))
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "What are your vegan options?", body["transcription"])
	assert.Equal(t, "menu_query", body["intent"])
	assert.Equal(t, map[string]any{"diet": "vegan"}, body["entities"])
	assert.Equal(t, []any{}, body["faq_matches"])
	assert.Equal(t, "Vegan options: Salad.", body["response"])

	require.Len(t, pipeline.calls, 1)
	in := pipeline.calls[0]
	assert.Equal(t, "data/brand_faq.csv", in.FAQTablePath)
	assert.Equal(t, "base", in.STTModel)
	assert.Equal(t, 3, in.K)
	assert.Equal(t, models.FAQSourceDefault, in.FAQSource)
	assert.Equal(t, ".wav", filepath.Ext(in.AudioPath))
	assert.Equal(t, "RIFFfake", pipeline.seen[in.AudioPath])

	assert.Empty(t, tempDirEntries(t, tmp))
}

func TestQueryWithUploadedTableAndOptions(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	pipeline := &fakePipeline{result: &models.PipelineResult{Intent: models.IntentOther, FAQMatches: []string{"Q: A"}}}
	app := newTestApp(t, pipeline, nil, nil)

	status, body := do(t, app, multipartRequest(t,
		part{field: "audio", filename: "q.mp3", content: "ID3"},
		part{field: "faq", filename: "mine.csv", content: "question,answer\nQ,A\n"},
		part{field: "whisper_model", content: "small"},
		part{field: "k", content: "5"},
	))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"Q: A"}, body["faq_matches"])

	in := pipeline.calls[0]
	assert.Equal(t, "small", in.STTModel)
	assert.Equal(t, 5, in.K)
	assert.Equal(t, models.FAQSourceUpload, in.FAQSource)
	assert.Equal(t, "question,answer\nQ,A\n", pipeline.seen[in.FAQTablePath])

	assert.Empty(t, tempDirEntries(t, tmp))
}

func TestQueryPipelineFailure(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	pipeline := &fakePipeline{err: fmt.Errorf("failed to transcribe audio: %w", errors.New("unsupported format"))}
	app := newTestApp(t, pipeline, nil, nil)

	status, body := do(t, app, multipartRequest(t,
		part{field: "audio", filename: "q.ogg", content: "OggS"},
		part{field: "faq", filename: "f.csv", content: "question,answer\n"},
	))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "failed to transcribe audio: unsupported format", body["error"])

	assert.Empty(t, tempDirEntries(t, tmp))
}

func TestQueryValidation(t *testing.T) {
	pipeline := &fakePipeline{}
	app := newTestApp(t, pipeline, nil, nil)

	tests := []struct {
		name  string
		parts []part
	}{
		{"missing audio", []part{{field: "k", content: "3"}}},
		{"k not a number", []part{{field: "audio", filename: "a.wav", content: "x"}, {field: "k", content: "three"}}},
		{"k zero", []part{{field: "audio", filename: "a.wav", content: "x"}, {field: "k", content: "0"}}},
		{"unknown whisper_model", []part{{field: "audio", filename: "a.wav", content: "x"}, {field: "whisper_model", content: "junk-1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, multipartRequest(t, tt.parts...))
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.Empty(t, pipeline.calls)
}

func TestAdminRoutes(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	logs := &fakeLogs{entries: []*models.QueryLog{
		{Transcription: "b", Intent: models.IntentOther, K: 3, FAQSource: models.FAQSourceDefault, CreatedAt: time.Now()},
		{Transcription: "a", Intent: models.IntentMenuQuery, K: 1, FAQSource: models.FAQSourceUpload, CreatedAt: time.Now()},
	}}
	admin := handlers.NewAdminHandler(logs, &fakePurger{n: 2}, zap.NewNop())
	app := newTestApp(t, &fakePipeline{}, admin, jwtManager)

	token, err := jwtManager.GenerateToken("ops", auth.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/queries?limit=1", nil)
	status, _ := do(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, status)

	req = httptest.NewRequest(http.MethodGet, "/admin/queries?limit=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, body := do(t, app, req)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 1, body["limit"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].(map[string]any)["transcription"])
	assert.Equal(t, []any{}, items[0].(map[string]any)["faq_matches"])

	req = httptest.NewRequest(http.MethodPost, "/admin/index-cache/purge", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, body = do(t, app, req)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["purged"])
}

func TestAdminRoutesDisabledWithoutQueryLog(t *testing.T) {
	app := newTestApp(t, &fakePipeline{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/queries", nil)
	status, _ := do(t, app, req)
	assert.Equal(t, http.StatusNotFound, status)
}
