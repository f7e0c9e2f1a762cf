package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadscore/internal/adapters/feed/memfeed"
	"leadscore/internal/core/dashboard"
	"leadscore/internal/core/leads"
	"leadscore/internal/modkit"
	"leadscore/internal/modkit/httpkit"
	"leadscore/internal/modkit/module"
	"leadscore/internal/platform/config"
	perr "leadscore/internal/platform/errors"
	pnet "leadscore/internal/platform/net"
	phttp "leadscore/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func newServer(t *testing.T) (http.Handler, *memfeed.Broadcaster, *dashboard.Hub) {
	t.Helper()
	t.Setenv("DASHBOARD_TZ", "UTC")
	feed := memfeed.New()
	hub := dashboard.NewHub(dashboard.WithLocation(time.UTC))
	t.Cleanup(hub.Attach(feed))

	deps := modkit.Deps{
		Cfg: config.New(),
		Hub: hub,
		Auth: httpkit.NewPortFunc(func(tok string) (pnet.Principal, error) {
			switch tok {
			case "t1":
				return pnet.Principal{UserID: "user-1"}, nil
			case "t2":
				return pnet.Principal{UserID: "user-2"}, nil
			}
			return pnet.Principal{}, perr.Unauthorizedf("bad")
		}),
	}
	m := New(deps)
	if module.MustPortsOf[Ports](m).Service == nil {
		t.Fatal("service port missing")
	}
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	return mux, feed, hub
}

func call(t *testing.T, h http.Handler, method, path, body, tok string) (int, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env phttp.Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func view(t *testing.T, env phttp.Envelope) leads.View {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatal(err)
	}
	var v leads.View
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("view: %v", err)
	}
	return v
}

func seed(feed *memfeed.Broadcaster) {
	ts := func(d int) *time.Time { t := time.Now().UTC().AddDate(0, 0, -d); return &t }
	sc := func(v float64) *float64 { return &v }
	feed.Publish([]leads.Record{
		{ID: "1", Score: sc(91), Source: "web", CreatedAt: ts(0), Name: "Ada"},
		{ID: "2", Score: sc(48), Source: "Referral", CreatedAt: ts(1), Name: "Grace"},
		{ID: "3", Score: sc(77), Source: "web", CreatedAt: ts(2), Name: "Linus"},
	})
}

func TestDashboard_SessionLifecycle(t *testing.T) {
	h, feed, hub := newServer(t)
	seed(feed)

	code, env := call(t, h, http.MethodGet, "/dashboard", "", "t1")
	if v := view(t, env); code != http.StatusOK || v.Total != 3 || v.Filtered != 3 {
		t.Fatalf("view = %d %+v", code, env)
	}

	code, env = call(t, h, http.MethodPut, "/dashboard/filters", `{"source":"WEB","minScore":80}`, "t1")
	if v := view(t, env); code != http.StatusOK || v.Filtered != 1 {
		t.Fatalf("filter = %d %+v", code, env)
	}
	// a second caller sees the unfiltered view
	_, env = call(t, h, http.MethodGet, "/dashboard", "", "t2")
	if v := view(t, env); v.Filtered != 3 {
		t.Fatalf("t2 filtered = %d", v.Filtered)
	}
	if hub.Sessions() != 2 {
		t.Fatalf("sessions = %d", hub.Sessions())
	}

	_, env = call(t, h, http.MethodDelete, "/dashboard/filters", "", "t1")
	if v := view(t, env); v.Filtered != 3 || v.Filter.Source != leads.AllSources {
		t.Fatalf("reset = %+v", v.Filter)
	}

	if code, _ := call(t, h, http.MethodDelete, "/dashboard", "", "t1"); code != http.StatusNoContent {
		t.Fatalf("end = %d", code)
	}
	if hub.Sessions() != 1 {
		t.Fatalf("sessions after end = %d", hub.Sessions())
	}
}

func TestDashboard_QueryAndSources(t *testing.T) {
	h, feed, hub := newServer(t)
	seed(feed)

	code, env := call(t, h, http.MethodPost, "/dashboard/query", `{"q":"gra"}`, "t1")
	if v := view(t, env); code != http.StatusOK || v.Filtered != 1 {
		t.Fatalf("query = %d %+v", code, env)
	}
	if hub.Sessions() != 0 {
		t.Fatalf("query opened a session")
	}

	_, env = call(t, h, http.MethodGet, "/dashboard/sources", "", "t1")
	list, _ := env.Data.([]any)
	if len(list) != 3 || list[0] != leads.AllSources {
		t.Fatalf("sources = %+v", env.Data)
	}
}

func TestDashboard_Rejections(t *testing.T) {
	h, _, _ := newServer(t)

	if code, _ := call(t, h, http.MethodGet, "/dashboard", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d", code)
	}
	if code, _ := call(t, h, http.MethodGet, "/dashboard", "", "nope"); code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", code)
	}
	code, env := call(t, h, http.MethodPut, "/dashboard/filters", `{"from":"yesterday"}`, "t1")
	if code != http.StatusBadRequest || env.Field != "from" {
		t.Fatalf("bad day = %d %+v", code, env)
	}
	if code, _ := call(t, h, http.MethodPost, "/dashboard/query", `{"minScore":"high"}`, "t1"); code != http.StatusBadRequest {
		t.Fatalf("bad json = %d", code)
	}
}

func TestFromConfig_SessionIdle(t *testing.T) {
	o := FromConfig(config.New().Prefix("NOPE_"))
	if o.SessionIdle != 30*time.Minute || o.SweepEvery() != 450*time.Second {
		t.Fatalf("defaults = %v every %v", o.SessionIdle, o.SweepEvery())
	}

	t.Setenv("DASHBOARD_SESSION_IDLE", "2s")
	o = FromConfig(config.New())
	if o.SessionIdle != 2*time.Second || o.SweepEvery() != time.Second {
		t.Fatalf("short idle = %v every %v", o.SessionIdle, o.SweepEvery())
	}
}
