package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/dhcpdash/internal/config"
	"github.com/matzehuels/dhcpdash/pkg/dhcpopt"
	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/observability"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(config.Default(), nil, nil)
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSerializeJSON(t *testing.T) {
	body := `{"options":[{"code":6,"fields":[{"type":"ipv4-address","values":["192.0.2.1"]}]}]}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/options/serialize", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	want := `[{"alwaysSend":false,"code":6,"encapsulate":"","fields":[{"fieldType":"ipv4-address","values":["192.0.2.1"]}],"universe":4,"options":[]}]`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s\nwant %s", got, want)
	}
}

func TestSerializeTOML(t *testing.T) {
	body := `
[[option]]
code = 1024
always_send = true
  [[option.field]]
  type = "ipv6-prefix"
  values = ["3000::", 64]
`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/options/serialize?universe=6", "application/toml", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var got []dhcpopt.SerializedOption
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Universe != 6 || !got[0].AlwaysSend {
		t.Fatalf("got %+v", got)
	}
	if v := got[0].Fields[0].Values; len(v) != 2 || v[0] != "3000::" || v[1] != "64" {
		t.Errorf("values = %v", v)
	}
}

func TestSerializeErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed", "/api/v1/options/serialize", `{`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing code", "/api/v1/options/serialize", `{"options":[{"fields":[]}]}`, http.StatusBadRequest, errors.ErrCodeMissingOptionCode},
		{"bad universe", "/api/v1/options/serialize?universe=5", `{"options":[]}`, http.StatusBadRequest, errors.ErrCodeInvalidUniverse},
		{"bad field type", "/api/v1/options/serialize", `{"options":[{"code":1,"fields":[{"type":"uint128"}]}]}`, http.StatusBadRequest, errors.ErrCodeInvalidFieldType},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, "application/json", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if resp := decodeError(t, rec); resp.Code != tt.code || resp.Error == "" {
				t.Errorf("error body = %+v, want code %s", resp, tt.code)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	body := `[{"alwaysSend":true,"code":6,"fields":[{"fieldType":"ipv4-address","values":["192.0.2.300"]}]}]`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/options/decode", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp DecodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Problems) != 1 || !strings.HasPrefix(resp.Problems[0].Path, "0.") {
		t.Errorf("problems = %+v", resp.Problems)
	}
	if resp.Names["6"] == "" {
		t.Errorf("names = %v, want a name for option 6", resp.Names)
	}
	options, ok := resp.Form.([]any)
	if !ok || len(options) != 1 {
		t.Fatalf("form = %#v", resp.Form)
	}
	if opt := options[0].(map[string]any); opt[dhcpopt.ControlAlwaysSend] != true {
		t.Errorf("option = %v", opt)
	}
}

func TestDecodeRejectsDeepNesting(t *testing.T) {
	body := `[{"code":1,"options":[{"code":2,"options":[{"code":3}]}]}]`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/options/decode", "application/json", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != errors.ErrCodeNestingTooDeep {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestTree(t *testing.T) {
	s := newTestServer(t)
	body := `{"value":{"b":[1,2],"a":"x","password":"hunter2"},"autoExpand":"all"}`
	rec := do(t, s, http.MethodPost, "/api/v1/tree", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp TreeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"{3}",
		`    a: "x"`,
		"  ▾ b: [2]",
		"      0: 1",
		"      1: 2",
		"    password: ******",
	}
	if strings.Join(resp.Lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("lines:\n%s\nwant:\n%s", strings.Join(resp.Lines, "\n"), strings.Join(want, "\n"))
	}

	rec = do(t, s, http.MethodPost, "/api/v1/tree?format=text", "application/json", body)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "{3}\n") {
		t.Errorf("text body = %q", rec.Body.String())
	}
}

func TestTreeBadAutoExpand(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/tree", "application/json", `{"value":1,"autoExpand":"some"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	defer observability.Reset()
	m := NewMetrics()
	m.Install()
	s := New(config.Default(), nil, m)

	do(t, s, http.MethodPost, "/api/v1/options/serialize", "application/json", `{"options":[{"code":6}]}`)
	do(t, s, http.MethodPost, "/api/v1/options/serialize", "application/json", `{"options":[{}]}`)

	rec := do(t, s, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := rec.Body.String()
	for _, want := range []string{
		`dhcpdash_options_process_total{result="ok",universe="4"} 1`,
		`dhcpdash_options_process_total{result="MISSING_OPTION_CODE",universe="4"} 1`,
		`dhcpdash_http_requests_total{method="POST",route="/api/v1/options/serialize",status="200"} 1`,
		`dhcpdash_http_requests_total{method="POST",route="/api/v1/options/serialize",status="400"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeForbidden, "x"), http.StatusForbidden},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
