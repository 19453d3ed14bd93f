package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/masterhand/internal/app"
	"github.com/ayusman/masterhand/internal/store"
)

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["status"] != "ok" {
			t.Errorf("status = %v, want ok", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestServer_Events(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	session, err := st.Events().StartSession("edge")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	for _, hand := range []string{"Left", "Right"} {
		if _, err := st.Events().RecordSnap(session.ID, hand, "edge", 0); err != nil {
			t.Fatalf("RecordSnap() error = %v", err)
		}
	}

	s := New(Config{Store: st})

	t.Run("lists recent snaps", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var response struct {
			Events []store.SnapEvent `json:"events"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(response.Events) != 2 {
			t.Errorf("events = %d, want 2", len(response.Events))
		}
	})

	t.Run("honors limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events?limit=1", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		var response struct {
			Events []store.SnapEvent `json:"events"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(response.Events) != 1 {
			t.Errorf("events = %d, want 1", len(response.Events))
		}
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events?limit=zero", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestServer_EventsRouteDisabledWithoutStore(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServer_Metrics(t *testing.T) {
	metrics := app.NewMetrics()
	s := New(Config{Registry: metrics.Registry()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "masterhand_frames_processed_total") {
		t.Error("metrics output missing masterhand_frames_processed_total")
	}
}
