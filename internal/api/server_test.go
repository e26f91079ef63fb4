package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/resumelang/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:           "0",
		RootDir:        t.TempDir(),
		MaxSourceBytes: 1 << 20,
		MaxImportDepth: 8,
		ParseMode:      "strict",
	}
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	return NewServer(slog.New(slog.DiscardHandler), cfg, prometheus.NewRegistry())
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type wireNode struct {
	Type     string          `json:"type"`
	Value    json.RawMessage `json:"value"`
	Children []wireNode      `json:"children"`
}

type wireResponse struct {
	AST   wireNode `json:"ast"`
	Error string   `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) wireResponse {
	t.Helper()
	var resp wireResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	rec := do(t, srv, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestParse_PlainText(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	rec := do(t, srv, http.MethodPost, "/api/parse", "text/plain", "section Basic\nlabel Name: Jane\nend\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	resp := decode(t, rec)
	if resp.Error != "" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if resp.AST.Type != "root" || len(resp.AST.Children) != 1 {
		t.Fatalf("expected root with 1 child, got %+v", resp.AST)
	}
	section := resp.AST.Children[0]
	if section.Type != "section" || string(section.Value) != `"Basic"` {
		t.Errorf("expected section Basic, got %s %s", section.Type, section.Value)
	}
	if len(section.Children) != 1 || section.Children[0].Type != "label" {
		t.Fatalf("expected one label in section, got %+v", section.Children)
	}

	var label struct {
		ID    string `json:"id"`
		Value struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"value"`
	}
	if err := json.Unmarshal(section.Children[0].Value, &label); err != nil {
		t.Fatalf("decode label: %v", err)
	}
	if label.ID != "Name" || label.Value.Type != "text" || label.Value.Value != "Jane" {
		t.Errorf("unexpected label %+v", label)
	}
}

func TestParse_JSONWithFiles(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	body := `{"source":"@import \"./a\"","files":{"a.resume":"label x:y"}}`
	rec := do(t, srv, http.MethodPost, "/api/parse", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if len(resp.AST.Children) != 1 || resp.AST.Children[0].Type != "label" {
		t.Fatalf("expected imported label, got %+v", resp.AST.Children)
	}
}

func TestParse_StrictFailureReturnsPartialTree(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	rec := do(t, srv, http.MethodPost, "/api/parse", "text/plain", "label a: b\n@import ./c\nlabel d: e\n")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if !strings.Contains(resp.Error, "must be quoted") {
		t.Errorf("expected malformed import error, got %q", resp.Error)
	}
	if len(resp.AST.Children) != 1 {
		t.Errorf("expected partial tree with 1 node, got %d", len(resp.AST.Children))
	}
}

func TestParse_BestEffort(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	rec := do(t, srv, http.MethodPost, "/api/parse", "application/json",
		`{"source":"label a: b\n@import ./c\n","best_effort":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decode(t, rec); resp.Error != "" || len(resp.AST.Children) != 1 {
		t.Errorf("unexpected response %+v", resp)
	}

	rec = do(t, srv, http.MethodPost, "/api/parse?best_effort=true", "text/plain", "@import ./c")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with query flag, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/parse?best_effort=maybe", "text/plain", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad flag, got %d", rec.Code)
	}
}

func TestParse_YAML(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	rec := do(t, srv, http.MethodPost, "/api/parse?format=yaml", "text/plain", "label Site: url https://x.io")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("expected application/yaml, got %q", ct)
	}

	var resp struct {
		AST struct {
			Type     string `yaml:"type"`
			Children []struct {
				Type  string `yaml:"type"`
				Value struct {
					ID    string `yaml:"id"`
					Value struct {
						Type  string `yaml:"type"`
						Value struct {
							Alias string `yaml:"alias"`
							Link  string `yaml:"link"`
						} `yaml:"value"`
					} `yaml:"value"`
				} `yaml:"value"`
			} `yaml:"children"`
		} `yaml:"ast"`
	}
	if err := yaml.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, rec.Body.String())
	}
	if resp.AST.Type != "root" || len(resp.AST.Children) != 1 {
		t.Fatalf("unexpected tree: %+v", resp.AST)
	}
	url := resp.AST.Children[0].Value.Value
	if url.Type != "url" || url.Value.Link != "https://x.io" || url.Value.Alias != "https://x.io" {
		t.Errorf("unexpected url value: %+v", url)
	}
}

func TestParse_BadFormat(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	rec := do(t, srv, http.MethodPost, "/api/parse?format=xml", "text/plain", "label a: b")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestParse_TooLarge(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxSourceBytes = 8
	srv := newTestServer(t, cfg)
	rec := do(t, srv, http.MethodPost, "/api/parse", "text/plain", "label name: a very long value")
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	rec := do(t, srv, http.MethodPost, "/api/parse", "application/json", `{"source":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestFormat(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	rec := do(t, srv, http.MethodPost, "/api/format", "text/plain", "section  Basic\n      label Name:   Jane\nend")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := "section Basic\n  label Name:Jane\nend\n"
	if rec.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPost, "/api/format", "text/plain", "@import missing")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for a strict failure, got %d", rec.Code)
	}
}

func TestDocument(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.RootDir, "cv.resume"), "section Education\n@import \"./edu\"\nend\n")
	writeFile(t, filepath.Join(cfg.RootDir, "edu.resume"), "label School: State U\n")
	srv := newTestServer(t, cfg)

	rec := do(t, srv, http.MethodGet, "/api/documents/cv", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if len(resp.AST.Children) != 1 || len(resp.AST.Children[0].Children) != 1 {
		t.Fatalf("expected section with imported label, got %+v", resp.AST)
	}

	rec = do(t, srv, http.MethodGet, "/api/documents/missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/documents/.hidden", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestDocument_BestEffort(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.RootDir, "cv.resume"), "label a: b\n@import ./edu\n")
	srv := newTestServer(t, cfg)

	rec := do(t, srv, http.MethodGet, "/api/documents/cv", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 in strict mode, got %d", rec.Code)
	}

	for _, flag := range []string{"1", "true", "TRUE"} {
		rec = do(t, srv, http.MethodGet, "/api/documents/cv?best_effort="+flag, "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("best_effort=%s: expected 200, got %d: %s", flag, rec.Code, rec.Body.String())
			continue
		}
		if resp := decode(t, rec); resp.Error != "" || len(resp.AST.Children) != 1 {
			t.Errorf("best_effort=%s: unexpected response %+v", flag, resp)
		}
	}

	rec = do(t, srv, http.MethodGet, "/api/documents/cv?best_effort=maybe", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad flag, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	cfg := testConfig(t)
	cfg.APIKey = "secret"
	srv := newTestServer(t, cfg)

	rec := do(t, srv, http.MethodPost, "/api/parse", "text/plain", "label a: b")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("label a: b"))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("label a: b"))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", rec.Code)
	}

	if rec := do(t, srv, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("expected public health check, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	do(t, srv, http.MethodPost, "/api/parse", "text/plain", "label a: b")

	rec := do(t, srv, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`resumelang_parse_total{mode="strict",result="ok"} 1`,
		`resumelang_nodes_total{type="label"} 1`,
		"resumelang_parse_duration_seconds_count 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
