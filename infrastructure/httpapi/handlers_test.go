package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/u759/AllanAI-sub001/application/pipeline"
	"github.com/u759/AllanAI-sub001/domain/analysis"
	"github.com/u759/AllanAI-sub001/domain/match"
	"github.com/u759/AllanAI-sub001/infrastructure/config"
	"github.com/u759/AllanAI-sub001/infrastructure/storage"
)

type stubMetadata struct{}

func (stubMetadata) ReadMetadata(context.Context, string) (analysis.VideoMetadata, error) {
	return analysis.VideoMetadata{FPS: 30.0, FrameCount: 900, DurationSeconds: 30.0}, nil
}

type stubEngine struct{}

func (stubEngine) Analyze(context.Context, string, string) (*analysis.Result, error) {
	return nil, analysis.ErrInferenceDisabled
}

type stubMotion struct{}

func (stubMotion) DetectMotion(context.Context, string, float64) ([]analysis.Spike, error) {
	return nil, nil
}

type testEnv struct {
	server *Server
	repo   *storage.MemoryRepository
	store  *storage.VideoStore
}

// newTestEnv builds a server whose pool has queue capacity but no running
// workers, so submissions stay queued and handler behavior is deterministic.
func newTestEnv(t *testing.T, queueCapacity int) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := storage.NewMemoryRepository()
	store, err := storage.NewVideoStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := pipeline.NewService(repo, stubMetadata{}, stubEngine{}, stubMotion{},
		config.PipelineConfig{PreEventFrames: 15, PostEventFrames: 15, FallbackFPS: 30.0}, logger)
	pool := pipeline.NewPool(svc, config.WorkerConfig{MaxSize: 1, QueueCapacity: queueCapacity}, logger)
	return &testEnv{
		server: NewServer(repo, store, pool, logger, prometheus.NewRegistry()),
		repo:   repo,
		store:  store,
	}
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("video", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/matches", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func doRequest(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUploadCreatesMatch(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := doRequest(env, uploadRequest(t, "rally.mp4", "video bytes"))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}

	var m match.Match
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if m.ID == "" {
		t.Error("response missing match id")
	}
	if m.Status != match.StatusUploaded {
		t.Errorf("status = %v, want UPLOADED", m.Status)
	}

	stored, err := env.repo.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("match not persisted: %v", err)
	}
	data, err := os.ReadFile(stored.VideoPath)
	if err != nil {
		t.Fatalf("video not stored: %v", err)
	}
	if string(data) != "video bytes" {
		t.Errorf("stored video = %q", data)
	}
}

func TestUploadMissingFile(t *testing.T) {
	env := newTestEnv(t, 4)

	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader("not multipart"))
	rec := doRequest(env, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadBackpressure(t *testing.T) {
	env := newTestEnv(t, 1) // no workers running, one queue slot

	if rec := doRequest(env, uploadRequest(t, "a.mp4", "a")); rec.Code != http.StatusAccepted {
		t.Fatalf("first upload status = %d, want 202", rec.Code)
	}
	rec := doRequest(env, uploadRequest(t, "b.mp4", "b"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second upload status = %d, want 429", rec.Code)
	}
}

func TestGetMatch(t *testing.T) {
	env := newTestEnv(t, 4)
	seed := &match.Match{ID: "m1", Status: match.StatusComplete, Duration: 30.0}
	if err := env.repo.Save(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches/m1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var m match.Match
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.ID != "m1" || m.Status != match.StatusComplete {
		t.Errorf("match = %+v", m)
	}
}

func TestGetMatchNotFound(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Error("error response missing message")
	}
}

func TestListMatches(t *testing.T) {
	env := newTestEnv(t, 4)
	for _, id := range []string{"m1", "m2"} {
		if err := env.repo.Save(context.Background(), &match.Match{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	rec := doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var list []match.Match
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("got %d matches, want 2", len(list))
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t, 4)
	if err := env.repo.Save(context.Background(), &match.Match{ID: "m1", Status: match.StatusProcessing}); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches/m1/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "PROCESSING" {
		t.Errorf("status field = %v, want PROCESSING", body["status"])
	}
}

func TestSubResourceEndpoints(t *testing.T) {
	env := newTestEnv(t, 4)
	player := 1
	seed := &match.Match{
		ID:     "m1",
		Status: match.StatusComplete,
		Statistics: match.Statistics{
			Player1Score: 3, Player2Score: 2, TotalRallies: 6, AvgRallyLength: 5.0,
		},
		Events: []match.Event{
			{ID: "e1", Timestamp: 1000, Timestamps: []int64{1000}, Type: match.EventScore, Player: &player, Importance: 6},
		},
		Highlights: match.Highlights{
			PlayOfTheGame: &match.HighlightRef{EventID: "e1", Timestamp: 1000, Timestamps: []int64{1000}},
			TopRallies:    []match.HighlightRef{},
			FastestShots:  []match.HighlightRef{},
			BestServes:    []match.HighlightRef{},
		},
	}
	if err := env.repo.Save(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches/m1/statistics", nil))
	var stats match.Statistics
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Player1Score != 3 {
		t.Errorf("statistics = %+v", stats)
	}

	rec = doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches/m1/events", nil))
	var events []match.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("events = %+v", events)
	}

	rec = doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches/m1/highlights", nil))
	var hl match.Highlights
	if err := json.Unmarshal(rec.Body.Bytes(), &hl); err != nil {
		t.Fatal(err)
	}
	if hl.PlayOfTheGame == nil || hl.PlayOfTheGame.EventID != "e1" {
		t.Errorf("highlights = %+v", hl)
	}
}

func TestVideoEndpointServesFile(t *testing.T) {
	env := newTestEnv(t, 4)
	path, err := env.store.Save(strings.NewReader("mp4 content"), "m.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if err := env.repo.Save(context.Background(), &match.Match{ID: "m1", VideoPath: path}); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches/m1/video", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "mp4 content" {
		t.Errorf("body = %q", rec.Body)
	}

	// Range requests must work for mobile players.
	req := httptest.NewRequest(http.MethodGet, "/api/matches/m1/video", nil)
	req.Header.Set("Range", "bytes=0-2")
	rec = doRequest(env, req)
	if rec.Code != http.StatusPartialContent {
		t.Fatalf("range status = %d, want 206", rec.Code)
	}
	if rec.Body.String() != "mp4" {
		t.Errorf("range body = %q", rec.Body)
	}
}

func TestDeleteMatch(t *testing.T) {
	env := newTestEnv(t, 4)
	path, err := env.store.Save(strings.NewReader("x"), "m.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if err := env.repo.Save(context.Background(), &match.Match{ID: "m1", VideoPath: path}); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(env, httptest.NewRequest(http.MethodDelete, "/api/matches/m1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("video file not removed")
	}
	rec = doRequest(env, httptest.NewRequest(http.MethodGet, "/api/matches/m1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status after delete = %d, want 404", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := doRequest(env, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := doRequest(env, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
