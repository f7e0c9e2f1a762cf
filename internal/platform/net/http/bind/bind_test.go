package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "leadscore/internal/platform/errors"
)

type leadIn struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Pitch string `json:"pitch" validate:"min=10,max=2000"`
}

type rangeIn struct {
	From  string   `json:"from" validate:"day"`
	Min   *float64 `json:"min" validate:"omitempty,min=0,max=100"`
	Limit int      `json:"limit" validate:"max=500"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON_Success(t *testing.T) {
	got, err := ParseJSON[leadIn](post(`{"name":"Ada","email":"ada@acme.io","pitch":"We need lead scoring"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Ada" || got.Email != "ada@acme.io" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_BodyErrors(t *testing.T) {
	cases := []struct {
		name string
		req  *http.Request
		opts []JSONOptions
	}{
		{"empty post", httptest.NewRequest(http.MethodPost, "/", http.NoBody), nil},
		{"invalid json", post(`{`), nil},
		{"unknown field", post(`{"name":"Ada","email":"ada@acme.io","pitch":"0123456789","x":1}`), nil},
		{"trailing data", post(`{"name":"Ada","email":"ada@acme.io","pitch":"0123456789"} {}`), nil},
		{"too large", post(`{"name":"Ada","email":"ada@acme.io","pitch":"0123456789"}`), []JSONOptions{{MaxBytes: 8, DisallowUnknown: true}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseJSON[leadIn](c.req, c.opts...)
			if perr.CodeOf(err) != perr.ErrorCodeJSON {
				t.Fatalf("code = %v (%v), want JSON", perr.CodeOf(err), err)
			}
		})
	}
}

func TestParseJSON_EmptyBodyForSafeMethods(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/", http.NoBody)
	got, err := ParseJSON[rangeIn](req)
	if err != nil || got != (rangeIn{}) {
		t.Fatalf("DELETE without body = %+v %v", got, err)
	}

	got2, err := ParseJSON[rangeIn](httptest.NewRequest(http.MethodPut, "/", http.NoBody), JSONOptions{AllowEmptyBody: true})
	if err != nil || got2 != (rangeIn{}) {
		t.Fatalf("AllowEmptyBody = %+v %v", got2, err)
	}
}

func TestParseJSON_AllowUnknown(t *testing.T) {
	_, err := ParseJSON[rangeIn](post(`{"limit":5,"extra":true}`), JSONOptions{MaxBytes: 1 << 10})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestParseJSON_ValidationMessages(t *testing.T) {
	cases := []struct {
		body  string
		field string
		msg   string
	}{
		{`{"name":"A","email":"ada@acme.io","pitch":"0123456789"}`, "name", "name must be at least 2 characters"},
		{`{"name":"Ada","email":"nope","pitch":"0123456789"}`, "email", "email must be a valid email address"},
		{`{"name":"Ada","email":"ada@acme.io","pitch":"short"}`, "pitch", "pitch must be at least 10 characters"},
		{`{"email":"ada@acme.io","pitch":"0123456789"}`, "name", "name is required"},
	}
	for _, c := range cases {
		_, err := ParseJSON[leadIn](post(c.body))
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation {
			t.Fatalf("%s: want validation error, got %v", c.body, err)
		}
		if e.Field() != c.field || e.Message() != c.msg {
			t.Fatalf("%s: got %q/%q want %q/%q", c.body, e.Field(), e.Message(), c.field, c.msg)
		}
	}
}

func TestValidate_NumericBoundsAndDay(t *testing.T) {
	over := 120.0
	cases := []struct {
		in    rangeIn
		field string
		msg   string
	}{
		{rangeIn{From: "2024-02-30"}, "from", "from must be a date formatted YYYY-MM-DD"},
		{rangeIn{Min: &over}, "min", "min must be at most 100"},
		{rangeIn{Limit: 501}, "limit", "limit must be at most 500"},
	}
	for _, c := range cases {
		e, ok := perr.As(Validate(c.in))
		if !ok || e.Field() != c.field || e.Message() != c.msg {
			t.Fatalf("%+v: got %v", c.in, e)
		}
	}
	if err := Validate(rangeIn{From: "2024-02-29", Limit: 10}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestValidate_NonStruct(t *testing.T) {
	if !perr.IsCode(Validate(42), perr.ErrorCodeUnknown) {
		t.Fatalf("invalid validation should map to unknown")
	}
}

func TestParseJSON_TrailingSeam(t *testing.T) {
	prev := jsonMore
	jsonMore = func(*json.Decoder) bool { return true }
	defer func() { jsonMore = prev }()

	_, err := ParseJSON[rangeIn](post(`{"limit":1}`))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("seam forced trailing data, got %v", err)
	}
}

func TestValidationFieldAndMessage_GenericError(t *testing.T) {
	field, msg := ValidationFieldAndMessage(errors.New("boom"))
	if field != "" || msg != "boom" {
		t.Fatalf("generic passthrough, got field=%q msg=%q", field, msg)
	}
	if f, m := ValidationFieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil = %q %q", f, m)
	}
}

func TestRegisterValidation_Custom(t *testing.T) {
	if err := RegisterValidation("six_digits", func(fl FieldLevel) bool {
		s := fl.Field().String()
		return len(s) == 6 && strings.Trim(s, "0123456789") == ""
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	type code struct {
		Code string `json:"code" validate:"six_digits"`
	}
	if Validate(code{Code: "042917"}) != nil {
		t.Fatalf("six digits should pass")
	}
	if Validate(code{Code: "42917"}) == nil {
		t.Fatalf("five digits should fail")
	}
}
