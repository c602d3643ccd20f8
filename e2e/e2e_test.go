package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/nayana/internal/app"
	"github.com/ayusman/nayana/internal/capture"
	"github.com/ayusman/nayana/internal/detector"
	"github.com/ayusman/nayana/internal/face"
	"github.com/ayusman/nayana/internal/server"
	"github.com/ayusman/nayana/internal/status"
	"github.com/ayusman/nayana/internal/store"
	"github.com/ayusman/nayana/internal/wink"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	rc := wink.RuntimeContext{Constrained: true}
	thresholds, err := s.Settings().Thresholds(wink.DefaultThresholds())
	if err != nil {
		t.Fatalf("Thresholds() error = %v", err)
	}
	params := wink.NewParams(rc, thresholds)

	session, err := wink.NewSession(params)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	w, h := rc.CaptureSize()
	cam := capture.NewBlankMockCamera(8, w, h, false)
	cam.SetFPS(500)
	defer cam.Release()

	// Only even capture frames reach the detector: 0, 2, 4, 6.
	det := detector.NewMockDetector()
	det.SetScript([][]face.LandmarkSet{
		nil,
		{face.LeftWinkLandmarks()},
		{face.LeftWinkLandmarks()},
		{face.OpenEyesLandmarks()},
	})

	hub := status.NewHub()
	application, err := app.New(app.Config{
		Camera:   cam,
		Detector: det,
		Session:  session,
		Hub:      hub,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	var confirmed []int
	application.RegisterTransitionCallback(func(out wink.Output) {
		if out.Transition.Confirmed() {
			confirmed = append(confirmed, out.FrameIndex)
		}
	})

	srv := server.New(server.Config{
		Store:      s,
		Hub:        hub,
		App:        application,
		Thresholds: thresholds,
		Params:     params,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("RunSession", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := application.Run(ctx); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if det.Calls() != 4 {
			t.Errorf("detector calls = %d, want 4", det.Calls())
		}
		if len(confirmed) != 1 || confirmed[0] != 4 {
			t.Errorf("confirmed at %v, want [4]", confirmed)
		}
	})

	t.Run("StatusSnapshot", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("GET /api/status error = %v", err)
		}
		defer resp.Body.Close()

		var out wink.Output
		json.NewDecoder(resp.Body).Decode(&out)

		if out.FrameIndex != 6 || out.Status != wink.StatusSearching {
			t.Errorf("snapshot = frame %d status %s, want frame 6 %s", out.FrameIndex, out.Status, wink.StatusSearching)
		}
		if out.Threshold != wink.DefaultConstrainedThreshold {
			t.Errorf("threshold = %v, want %v", out.Threshold, wink.DefaultConstrainedThreshold)
		}
		if out.SessionID != session.ID() {
			t.Errorf("session id = %q, want %q", out.SessionID, session.ID())
		}
	})

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("GET /api/health error = %v", err)
		}
		defer resp.Body.Close()

		var health map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&health)

		if health["status"] != "ok" || health["camera"] != app.CameraStopped {
			t.Errorf("health = %v", health)
		}
	})

	t.Run("UpdateSettings", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings",
			bytes.NewBufferString(`{"default": 0.26, "constrained": 0.19}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("PUT /api/settings error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		next, err := s.Settings().Thresholds(wink.DefaultThresholds())
		if err != nil {
			t.Fatalf("Thresholds() error = %v", err)
		}
		if next.Active(rc) != 0.19 {
			t.Errorf("next start threshold = %v, want 0.19", next.Active(rc))
		}
	})
}
