package metrics_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/skillforge/fitscore/internal/metrics"
)

type mockSystem struct {
	listDefsFn       func(ctx context.Context, activeOnly bool) ([]metrics.Def, error)
	findDefFn        func(ctx context.Context, id uuid.UUID) (*metrics.Def, error)
	createDefFn      func(ctx context.Context, cmd metrics.CreateDefCommand) (*metrics.Def, error)
	updateDefFn      func(ctx context.Context, id uuid.UUID, cmd metrics.UpdateDefCommand) (*metrics.Def, error)
	deleteDefFn      func(ctx context.Context, id uuid.UUID) error
	forParticipantFn func(ctx context.Context, participantID uuid.UUID) (map[string]metrics.Value, error)
	gridFn           func(ctx context.Context, participantID uuid.UUID) ([]metrics.ParticipantMetric, error)
	setFn            func(ctx context.Context, participantID uuid.UUID, code string, cmd metrics.SetCommand) (*metrics.Value, error)
	ingestFn         func(ctx context.Context, cmd metrics.IngestCommand) (*metrics.IngestResult, error)
}

func (m *mockSystem) Handler() *metrics.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) ListDefs(ctx context.Context, activeOnly bool) ([]metrics.Def, error) {
	return m.listDefsFn(ctx, activeOnly)
}

func (m *mockSystem) FindDef(ctx context.Context, id uuid.UUID) (*metrics.Def, error) {
	return m.findDefFn(ctx, id)
}

func (m *mockSystem) CreateDef(ctx context.Context, cmd metrics.CreateDefCommand) (*metrics.Def, error) {
	return m.createDefFn(ctx, cmd)
}

func (m *mockSystem) UpdateDef(ctx context.Context, id uuid.UUID, cmd metrics.UpdateDefCommand) (*metrics.Def, error) {
	return m.updateDefFn(ctx, id, cmd)
}

func (m *mockSystem) DeleteDef(ctx context.Context, id uuid.UUID) error {
	return m.deleteDefFn(ctx, id)
}

func (m *mockSystem) ForParticipant(ctx context.Context, participantID uuid.UUID) (map[string]metrics.Value, error) {
	return m.forParticipantFn(ctx, participantID)
}

func (m *mockSystem) Grid(ctx context.Context, participantID uuid.UUID) ([]metrics.ParticipantMetric, error) {
	return m.gridFn(ctx, participantID)
}

func (m *mockSystem) Set(ctx context.Context, participantID uuid.UUID, code string, cmd metrics.SetCommand) (*metrics.Value, error) {
	return m.setFn(ctx, participantID, code, cmd)
}

func (m *mockSystem) Ingest(ctx context.Context, cmd metrics.IngestCommand) (*metrics.IngestResult, error) {
	return m.ingestFn(ctx, cmd)
}

func newTestHandler(sys *mockSystem) *metrics.Handler {
	return metrics.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupMux(h *metrics.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleDef() metrics.Def {
	return metrics.Def{
		ID:        uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Code:      "general_intellect",
		Name:      "Общий интеллект",
		Category:  ptr("cognitive"),
		Active:    true,
		SortOrder: 10,
	}
}

func TestHandlerList(t *testing.T) {
	def := sampleDef()

	t.Run("returns definitions", func(t *testing.T) {
		sys := &mockSystem{
			listDefsFn: func(_ context.Context, _ bool) ([]metrics.Def, error) {
				return []metrics.Def{def}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/metrics", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got []metrics.Def
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || got[0].Code != "general_intellect" {
			t.Errorf("defs = %+v, want single general_intellect", got)
		}
	})

	t.Run("passes active scope", func(t *testing.T) {
		var captured bool
		sys := &mockSystem{
			listDefsFn: func(_ context.Context, activeOnly bool) ([]metrics.Def, error) {
				captured = activeOnly
				return nil, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/metrics?active=true", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !captured {
			t.Error("activeOnly = false, want true")
		}
	})
}

func TestHandlerFind(t *testing.T) {
	def := sampleDef()

	t.Run("returns definition by id", func(t *testing.T) {
		sys := &mockSystem{
			findDefFn: func(_ context.Context, id uuid.UUID) (*metrics.Def, error) {
				if id != def.ID {
					return nil, metrics.ErrDefNotFound
				}
				return &def, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/metrics/"+def.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got metrics.Def
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != def.ID {
			t.Errorf("id = %v, want %v", got.ID, def.ID)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/metrics/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findDefFn: func(_ context.Context, _ uuid.UUID) (*metrics.Def, error) {
				return nil, metrics.ErrDefNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/metrics/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerCreate(t *testing.T) {
	def := sampleDef()

	t.Run("creates definition", func(t *testing.T) {
		var captured metrics.CreateDefCommand
		sys := &mockSystem{
			createDefFn: func(_ context.Context, cmd metrics.CreateDefCommand) (*metrics.Def, error) {
				captured = cmd
				return &def, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(metrics.CreateDefCommand{
			Code:      "general_intellect",
			Name:      "Общий интеллект",
			SortOrder: 10,
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/metrics", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.Code != "general_intellect" {
			t.Errorf("code = %q, want general_intellect", captured.Code)
		}
	})

	t.Run("duplicate code returns 409", func(t *testing.T) {
		sys := &mockSystem{
			createDefFn: func(_ context.Context, _ metrics.CreateDefCommand) (*metrics.Def, error) {
				return nil, metrics.ErrDefDuplicate
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(metrics.CreateDefCommand{Code: "general_intellect", Name: "x"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/metrics", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/metrics", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerUpdate(t *testing.T) {
	def := sampleDef()

	t.Run("updates definition", func(t *testing.T) {
		var capturedID uuid.UUID
		var capturedCmd metrics.UpdateDefCommand
		sys := &mockSystem{
			updateDefFn: func(_ context.Context, id uuid.UUID, cmd metrics.UpdateDefCommand) (*metrics.Def, error) {
				capturedID = id
				capturedCmd = cmd
				return &def, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(metrics.UpdateDefCommand{
			Name:   "Интеллект",
			Active: false,
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/metrics/"+def.ID.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedID != def.ID {
			t.Errorf("id = %v, want %v", capturedID, def.ID)
		}
		if capturedCmd.Active {
			t.Error("active = true, want false")
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			updateDefFn: func(_ context.Context, _ uuid.UUID, _ metrics.UpdateDefCommand) (*metrics.Def, error) {
				return nil, metrics.ErrDefNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(metrics.UpdateDefCommand{Name: "x"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/metrics/"+uuid.New().String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	defID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	t.Run("deletes definition", func(t *testing.T) {
		var capturedID uuid.UUID
		sys := &mockSystem{
			deleteDefFn: func(_ context.Context, id uuid.UUID) error {
				capturedID = id
				return nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/metrics/"+defID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if capturedID != defID {
			t.Errorf("id = %v, want %v", capturedID, defID)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			deleteDefFn: func(_ context.Context, _ uuid.UUID) error {
				return metrics.ErrDefNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/metrics/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerIngest(t *testing.T) {
	participantID := uuid.MustParse("660e8400-e29b-41d4-a716-446655440000")

	t.Run("ingests rows", func(t *testing.T) {
		var captured metrics.IngestCommand
		sys := &mockSystem{
			ingestFn: func(_ context.Context, cmd metrics.IngestCommand) (*metrics.IngestResult, error) {
				captured = cmd
				return &metrics.IngestResult{
					Applied:       2,
					Skipped:       1,
					UnknownLabels: []string{"Неизвестно"},
				}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(metrics.IngestCommand{
			ParticipantID: participantID,
			Rows: []metrics.IngestRow{
				{Label: "Общий интеллект", Value: 8, Confidence: ptr(0.9)},
				{Label: "Здоровье", Value: 6},
				{Label: "Неизвестно", Value: 5},
			},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/metrics/ingest", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.ParticipantID != participantID {
			t.Errorf("participant = %v, want %v", captured.ParticipantID, participantID)
		}
		if len(captured.Rows) != 3 {
			t.Errorf("rows = %d, want 3", len(captured.Rows))
		}

		var result metrics.IngestResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Applied != 2 || result.Skipped != 1 {
			t.Errorf("result = %+v, want applied 2 skipped 1", result)
		}
		if len(result.UnknownLabels) != 1 {
			t.Errorf("unknown labels = %d, want 1", len(result.UnknownLabels))
		}
	})

	t.Run("empty batch returns 400", func(t *testing.T) {
		sys := &mockSystem{
			ingestFn: func(_ context.Context, _ metrics.IngestCommand) (*metrics.IngestResult, error) {
				return nil, metrics.ErrNoRows
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(metrics.IngestCommand{ParticipantID: participantID})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/metrics/ingest", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown participant returns 404", func(t *testing.T) {
		sys := &mockSystem{
			ingestFn: func(_ context.Context, _ metrics.IngestCommand) (*metrics.IngestResult, error) {
				return nil, metrics.ErrParticipantNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(metrics.IngestCommand{
			ParticipantID: participantID,
			Rows:          []metrics.IngestRow{{Label: "Здоровье", Value: 6}},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/metrics/ingest", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerRoutes(t *testing.T) {
	sys := &mockSystem{}
	h := newTestHandler(sys)
	group := h.Routes()

	if group.Prefix != "/metrics" {
		t.Errorf("prefix = %q, want /metrics", group.Prefix)
	}

	want := []struct {
		method  string
		pattern string
	}{
		{"GET", ""},
		{"GET", "/{id}"},
		{"POST", ""},
		{"PUT", "/{id}"},
		{"DELETE", "/{id}"},
		{"POST", "/ingest"},
	}

	if len(group.Routes) != len(want) {
		t.Fatalf("route count = %d, want %d", len(group.Routes), len(want))
	}

	for i, w := range want {
		r := group.Routes[i]
		if r.Method != w.method || r.Pattern != w.pattern {
			t.Errorf("route[%d] = %s %s, want %s %s", i, r.Method, r.Pattern, w.method, w.pattern)
		}
	}
}
