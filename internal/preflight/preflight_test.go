package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"glimpse/internal/config"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Log directory", dir)
	if !result.Passed {
		t.Errorf("writable temp dir failed: %s", result.Detail)
	}

	missing := CheckDirectoryAccess("Log directory", filepath.Join(dir, "absent"))
	if missing.Passed {
		t.Error("missing directory passed")
	}
	if !strings.Contains(missing.Detail, "does not exist") {
		t.Errorf("detail = %q", missing.Detail)
	}
}

func TestCheckLLMMissingKey(t *testing.T) {
	result := CheckLLM(context.Background(), config.LLM{Provider: "deepseek"})
	if result.Passed {
		t.Error("missing key passed")
	}
	if result.Detail != "API key missing" {
		t.Errorf("detail = %q", result.Detail)
	}
}

func TestCheckLLMReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "OK"}}},
		})
	}))
	defer server.Close()

	result := CheckLLM(context.Background(), config.LLM{
		Provider: "deepseek",
		APIKey:   "key",
		BaseURL:  server.URL,
		Model:    "demo",
	})
	if !result.Passed {
		t.Errorf("reachable endpoint failed: %s", result.Detail)
	}
}

func TestCheckOllama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	parsed, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	port, err := strconv.Atoi(parsed.Port())
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	result := CheckOllama(context.Background(), config.Ollama{
		BaseURL: parsed.Scheme + "://" + parsed.Hostname(),
		Port:    port,
		Model:   "llama3.2",
	})
	if !result.Passed {
		t.Errorf("reachable ollama failed: %s", result.Detail)
	}
}

func TestRunAllSkipsUnusedBackends(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.LLM.Provider = "none"
	cfg.OCR.Engine = "tesseract"

	results := RunAll(context.Background(), &cfg)
	if len(results) != 1 {
		t.Fatalf("got %d results, want only the directory check: %+v", len(results), results)
	}
	if results[0].Name != "Log directory" {
		t.Errorf("result = %+v", results[0])
	}
}

func TestCheckSystemDepsFollowsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Capture.Source = "replay"
	cfg.OCR.Engine = "baidu"
	if got := CheckSystemDeps(&cfg); len(got) != 0 {
		t.Errorf("replay+baidu config needs no binaries, got %+v", got)
	}

	cfg.Capture.Source = "ffmpeg"
	cfg.OCR.Engine = "tesseract"
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
}
