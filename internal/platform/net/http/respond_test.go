package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "leadscore/internal/platform/errors"
	pnet "leadscore/internal/platform/net"
	phttp "leadscore/internal/platform/net/http"
)

func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (%q)", err, rec.Body.String())
	}
	return env
}

func TestJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot || rec.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Fatalf("JSON = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestRespondOKAndError(t *testing.T) {
	req := reqWithReqID("GET", "/dashboard", "rid-1")

	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, req, map[string]int{"total": 4})
	env := decode(t, rec)
	if rec.Code != 200 || env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("RespondOK: %d %+v", rec.Code, env)
	}

	rec = httptest.NewRecorder()
	phttp.RespondError(rec, req, perr.NotFoundf("lead not found"))
	env = decode(t, rec)
	if rec.Code != http.StatusNotFound || env.Code != perr.ErrorCodeNotFound || env.Error != "lead not found" {
		t.Fatalf("RespondError: %d %+v", rec.Code, env)
	}
}

func TestHandle_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		resp phttp.Response
		code int
	}{
		{"ok", phttp.OK(map[string]any{"x": 1}), http.StatusOK},
		{"zero status", phttp.Response{Body: "hello"}, http.StatusOK},
		{"created", phttp.Created(map[string]any{"id": "l-1"}), http.StatusCreated},
		{"no content", phttp.NoContent(), http.StatusNoContent},
		{"project error", phttp.Error(perr.Unauthorizedf("Invalid credentials")), http.StatusUnauthorized},
		{"foreign error", phttp.Error(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			phttp.Handle(func(*http.Request) phttp.Response { return c.resp })(rec, reqWithReqID("GET", "/", "rid"))
			if rec.Code != c.code {
				t.Fatalf("code = %d want %d", rec.Code, c.code)
			}
			if c.code == http.StatusNoContent {
				if rec.Body.Len() != 0 {
					t.Fatalf("204 must not carry a body")
				}
				return
			}
			if env := decode(t, rec); env.StatusCode != c.code || env.Status != http.StatusText(c.code) {
				t.Fatalf("envelope status = %+v", env)
			}
		})
	}
}

func TestHandle_Headers(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		resp := phttp.OK("hello")
		resp.Header = http.Header{"Cache-Control": {"no-store"}}
		return resp
	})(rec, reqWithReqID("GET", "/", ""))
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("header not applied")
	}
}
