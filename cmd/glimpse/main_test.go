package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type cliTestEnv struct {
	configPath string
	framesDir  string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	framesDir := filepath.Join(base, "frames")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		t.Fatalf("create frames dir: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, filepath.Join(base, "logs"), framesDir, "")

	return &cliTestEnv{
		configPath: configPath,
		framesDir:  framesDir,
		baseDir:    base,
	}
}

// writeTestConfig writes a minimal valid config using the replay capture
// source so no external binaries or services are needed. llmBaseURL, when
// set, switches the provider to deepseek pointed at that URL.
func writeTestConfig(t *testing.T, path, logDir, framesDir, llmBaseURL string) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\n\n[capture]\nsource = \"replay\"\ninput = %q\n\n[ocr]\nengine = \"tesseract\"\n",
		logDir, framesDir,
	)
	if llmBaseURL != "" {
		content += fmt.Sprintf("\n[llm]\nprovider = \"deepseek\"\napi_key = \"test-key\"\nbase_url = %q\n", llmBaseURL)
	} else {
		content += "\n[llm]\nprovider = \"ollama\"\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !bytes.Contains([]byte(output), []byte(want)) {
		t.Fatalf("expected output to contain %q, got %q", want, output)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "glimpse "+version)
}

func TestVersionSkipsConfigLoad(t *testing.T) {
	// A bogus config path must not break commands annotated skipConfigLoad.
	out, _, err := runCLI(t, []string{"version"}, "/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("version with bad config: %v", err)
	}
	requireContains(t, out, "glimpse")
}

func TestConfigShowCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "capture.source")
	requireContains(t, out, "replay")
	requireContains(t, out, env.configPath)
}
