package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobarajas/outreach-cli/internal/model"
	"github.com/gobarajas/outreach-cli/internal/progress"
)

type stubHistory struct {
	batch    *model.Batch
	outcomes []model.Outcome
	err      error
}

func (s *stubHistory) CreateBatch(ctx context.Context, sourceFile, template string, total int) (*model.Batch, error) {
	return nil, nil
}
func (s *stubHistory) RecordOutcome(ctx context.Context, batchID string, outcome model.Outcome) error {
	return nil
}
func (s *stubHistory) CompleteBatch(ctx context.Context, batchID string, sent, errors int, status model.BatchStatus) error {
	return nil
}
func (s *stubHistory) LastBatch(ctx context.Context) (*model.Batch, []model.Outcome, error) {
	return s.batch, s.outcomes, s.err
}
func (s *stubHistory) Migrate(ctx context.Context) error { return nil }
func (s *stubHistory) Close() error                      { return nil }

func newTestProgressStore(t *testing.T) *progress.Store {
	t.Helper()
	return progress.NewStore(filepath.Join(t.TempDir(), "progreso.json"))
}

func TestServeMux_Health(t *testing.T) {
	mux := newServeMux(newTestProgressStore(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "ok", body["status"])
}

func TestServeMux_Progress_Empty(t *testing.T) {
	mux := newServeMux(newTestProgressStore(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/progress", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "no checkpoint saved")
}

func TestServeMux_Progress_Saved(t *testing.T) {
	store := newTestProgressStore(t)
	require.NoError(t, store.Save(7))

	mux := newServeMux(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/progress", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var cp progress.Checkpoint
	err := json.Unmarshal(rr.Body.Bytes(), &cp)
	require.NoError(t, err)
	assert.Equal(t, 7, cp.Index)
	assert.NotEmpty(t, cp.Date)
}

func TestServeMux_LastBatch_HistoryDisabled(t *testing.T) {
	mux := newServeMux(newTestProgressStore(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/batches/last", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "history disabled")
}

func TestServeMux_LastBatch_NoBatches(t *testing.T) {
	mux := newServeMux(newTestProgressStore(t), &stubHistory{})

	req := httptest.NewRequest(http.MethodGet, "/batches/last", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "no batches recorded")
}

func TestServeMux_LastBatch_Found(t *testing.T) {
	hist := &stubHistory{
		batch: &model.Batch{
			ID:         "b-1",
			SourceFile: "reservas.xlsx",
			Template:   "RecordatorioCita",
			Total:      2,
			Sent:       2,
			Status:     model.BatchStatusCompleted,
			StartedAt:  time.Now(),
		},
		outcomes: []model.Outcome{
			{BatchID: "b-1", Index: 0, Phone: "600111222", Sent: true},
			{BatchID: "b-1", Index: 1, Phone: "611222333", Sent: true},
		},
	}
	mux := newServeMux(newTestProgressStore(t), hist)

	req := httptest.NewRequest(http.MethodGet, "/batches/last", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Batch    model.Batch     `json:"batch"`
		Outcomes []model.Outcome `json:"outcomes"`
	}
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "b-1", body.Batch.ID)
	assert.Len(t, body.Outcomes, 2)
}

func TestServeMux_LastBatch_LookupError(t *testing.T) {
	mux := newServeMux(newTestProgressStore(t), &stubHistory{err: eris.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/batches/last", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
