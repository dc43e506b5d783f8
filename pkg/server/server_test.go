package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tungsten/pkg/config"
)

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	s := NewServer(config.DefaultConfig(), func() interface{} {
		return map[string]interface{}{"clicks": 2, "disabled": false}
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d", rec.Code)
	}
	var body struct {
		Status struct {
			Clicks   int  `json:"clicks"`
			Disabled bool `json:"disabled"`
		} `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status.Clicks != 2 || body.Status.Disabled {
		t.Fatalf("unexpected status %+v", body.Status)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST should be rejected, got %d", rec.Code)
	}
}

func TestStartServesHealth(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Gateway.Host = "127.0.0.1"
	cfg.Gateway.Port = 0
	s := NewServer(cfg, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(data) != "OK" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, data)
	}
}
