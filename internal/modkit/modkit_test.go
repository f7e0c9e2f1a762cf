package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"leadscore/internal/platform/config"
	phttp "leadscore/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func serve(t *testing.T, m Module, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func pong(r phttp.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
}

func TestBase_MountsUnderPrefix(t *testing.T) {
	t.Parallel()

	m := NewBase([]Option{WithName("leads"), WithPrefix("/leads")}, WithRegister(pong))
	if m.Name() != "leads" || m.Prefix() != "/leads" {
		t.Fatalf("name/prefix = %q/%q", m.Name(), m.Prefix())
	}
	if rec := serve(t, m, http.MethodGet, "/leads/ping"); rec.Code != http.StatusTeapot {
		t.Fatalf("prefixed route status = %d", rec.Code)
	}
	if rec := serve(t, m, http.MethodGet, "/ping"); rec.Code != http.StatusNotFound {
		t.Fatalf("unprefixed route status = %d", rec.Code)
	}
}

func TestBase_EmptyPrefixMountsAtRoot(t *testing.T) {
	t.Parallel()

	m := NewBase(nil, WithRegister(pong))
	if rec := serve(t, m, http.MethodGet, "/ping"); rec.Code != http.StatusTeapot {
		t.Fatalf("root route status = %d", rec.Code)
	}
}

func TestBase_CallerOptionsOverrideDefaults(t *testing.T) {
	t.Parallel()

	m := NewBase([]Option{WithPrefix("/a"), WithPorts("default")}, WithPrefix("/b"), WithPorts(42))
	if m.Prefix() != "/b" {
		t.Fatalf("prefix = %q, want /b", m.Prefix())
	}
	if m.Ports() != 42 {
		t.Fatalf("ports = %v, want 42", m.Ports())
	}
}

func TestBase_MiddlewareRunsInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	m := NewBase(nil, WithPrefix("/x"), WithMiddlewares(mark("a")), WithMiddlewares(mark("b")), WithRegister(pong))
	serve(t, m, http.MethodGet, "/x/ping")
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("middleware order = %v", order)
	}
}

func TestBuild_NormalizesPrefix(t *testing.T) {
	t.Parallel()

	if b := Build(WithPrefix("leads/")); b.Prefix != "/leads" {
		t.Fatalf("prefix = %q", b.Prefix)
	}
	if b := Build(WithPrefix("/")); b.Prefix != "/" {
		t.Fatalf("root prefix = %q", b.Prefix)
	}
}

func TestBuild_DefaultsAndCopy(t *testing.T) {
	t.Parallel()

	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || len(b.Mw) != 0 {
		t.Fatalf("unexpected defaults %+v", b)
	}
	b.Register(nil)

	mw := func(next http.Handler) http.Handler { return next }
	opts := []Option{WithMiddlewares(mw)}
	b1 := Build(opts...)
	b1.Mw[0] = nil
	if b2 := Build(opts...); b2.Mw[0] == nil {
		t.Fatal("Built.Mw must be a copy")
	}
}

func TestBuilder_Signature(t *testing.T) {
	t.Parallel()

	var build Builder = func(_ Deps, opts ...Option) Module {
		return NewBase([]Option{WithName("stub")}, opts...)
	}
	if m := build(Deps{}, WithPorts("ok")); m.Name() != "stub" || m.Ports() != "ok" {
		t.Fatalf("built module %q %v", m.Name(), m.Ports())
	}
}

func TestFromStore(t *testing.T) {
	t.Parallel()

	if d := FromStore(zerolog.Nop(), config.New(), nil); d.HasPG() || d.CH != nil || d.Redis != nil {
		t.Fatalf("nil store should leave backends nil: %+v", d)
	}
}
