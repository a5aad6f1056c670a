package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Capture contains configuration for the screen capture source.
type Capture struct {
	// Source selects the capture backend: "ffmpeg" grabs a live screen via
	// the platform grab device; "replay" reads frames from a directory of
	// images (useful for tests and offline runs).
	Source string `toml:"source"`
	// Input is the ffmpeg input (display/device) or the replay directory.
	Input string `toml:"input"`
	// Format is the ffmpeg input format (x11grab, avfoundation, gdigrab).
	Format string `toml:"format"`
	// FPS is the rate ffmpeg emits frames at; the pipeline samples a subset.
	FPS int `toml:"fps"`
	// MaxEdge caps the longer frame edge before OCR.
	MaxEdge int `toml:"max_edge"`
}

// Pipeline contains the sampling, change-detection, and dedup tunables.
type Pipeline struct {
	MinIntervalMS      int     `toml:"min_interval_ms"`
	ForceRefreshCycles int     `toml:"force_refresh_cycles"`
	ImageDiffThreshold float64 `toml:"image_diff_threshold"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	EditWeight         float64 `toml:"edit_weight"`
	WordWeight         float64 `toml:"word_weight"`
	MinTextLength      int     `toml:"min_text_length"`
	OCRTimeoutSeconds  int     `toml:"ocr_timeout_seconds"`
	LLMTimeoutSeconds  int     `toml:"llm_timeout_seconds"`
	CooldownSeconds    int     `toml:"cooldown_seconds"`
}

// OCR contains OCR engine selection and attempt bounds.
type OCR struct {
	// Engine selects the backend: "tesseract", "baidu", or "auto" (baidu
	// when configured, tesseract otherwise).
	Engine                 string `toml:"engine"`
	Languages              string `toml:"languages"`
	AttemptTimeoutSeconds  int    `toml:"attempt_timeout_seconds"`
	FallbackTimeoutSeconds int    `toml:"fallback_timeout_seconds"`
	Baidu                  Baidu  `toml:"baidu"`
}

// Baidu contains configuration for the Baidu cloud OCR vendor.
type Baidu struct {
	APIKey    string `toml:"api_key"`
	SecretKey string `toml:"secret_key"`
	BaseURL   string `toml:"base_url"`
}

// LLM contains configuration for the question-answering backend.
type LLM struct {
	// Provider selects the backend: "deepseek", "siliconflow", or "ollama".
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	SystemPrompt   string `toml:"system_prompt"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Ollama         Ollama `toml:"ollama"`
}

// Ollama contains configuration for the local Ollama provider.
type Ollama struct {
	BaseURL string `toml:"base_url"`
	Port    int    `toml:"port"`
	Model   string `toml:"model"`
}

// Normalizer contains the injectable OCR text cleanup tables.
type Normalizer struct {
	// Corrections maps characters commonly misread by OCR to their fixes.
	Corrections map[string]string `toml:"corrections"`
	// QuestionKeywords are leading interrogatives that mark a text as a question.
	QuestionKeywords []string `toml:"question_keywords"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Questions      bool   `toml:"questions"`
	Answers        bool   `toml:"answers"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for glimpse.
//
// Configuration sections by subsystem:
//   - Paths: log directory
//   - Capture: screen/frame source selection
//   - Pipeline: sampling interval, change-detection, and dedup thresholds
//   - OCR: engine selection, languages, attempt bounds, Baidu credentials
//   - LLM: answer backend selection and connection settings
//   - Normalizer: injectable OCR cleanup tables
//   - Notifications: ntfy push settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Capture       Capture       `toml:"capture"`
	Pipeline      Pipeline      `toml:"pipeline"`
	OCR           OCR           `toml:"ocr"`
	LLM           LLM           `toml:"llm"`
	Normalizer    Normalizer    `toml:"normalizer"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/glimpse/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to the given path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("glimpse.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for screen capture.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// TesseractBinary returns the tesseract executable name used for local OCR.
func (c *Config) TesseractBinary() string {
	return "tesseract"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
