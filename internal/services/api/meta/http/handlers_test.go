package http

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "leadscore/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func serve(t *testing.T, d Deps, path string) map[string]any {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("%s = %d", path, rec.Code)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	data, _ := env.Data.(map[string]any)
	return data
}

func TestReady(t *testing.T) {
	ok := func(stdctx.Context) error { return nil }
	bad := func(stdctx.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name   string
		checks map[string]PingFunc
		want   string
	}{
		{"all up", map[string]PingFunc{"pg": ok, "ch": ok, "redis": ok}, "ok"},
		{"missing backend", map[string]PingFunc{"pg": ok}, "degraded"},
		{"failing backend", map[string]PingFunc{"pg": bad, "ch": ok, "redis": ok}, "fail"},
	}
	for _, c := range cases {
		data := serve(t, Deps{Checks: c.checks, Expected: []string{"pg", "ch", "redis"}}, "/ready")
		if data["status"] != c.want {
			t.Fatalf("%s: status = %v", c.name, data["status"])
		}
		if checks, _ := data["checks"].([]any); len(checks) != 3 {
			t.Fatalf("%s: checks = %v", c.name, data["checks"])
		}
	}
}

func TestServiceAndHealth(t *testing.T) {
	started := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	d := Deps{
		ServiceName: "leadscore-api",
		StartedAt:   started,
		Now:         func() time.Time { return started.Add(90 * time.Second) },
	}
	if data := serve(t, d, "/service"); data["uptime"] != float64(90) || data["name"] != "leadscore-api" {
		t.Fatalf("service = %+v", data)
	}
	if data := serve(t, d, "/health"); data["ok"] != true || data["now"] != "2026-10-18T12:01:30Z" {
		t.Fatalf("health = %+v", data)
	}
	if data := serve(t, d, "/version"); data["service"] != "leadscore-api" {
		t.Fatalf("version = %+v", data)
	}
}
