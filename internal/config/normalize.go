package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCapture()
	c.normalizePipeline()
	c.normalizeOCR()
	c.normalizeLLM()
	c.normalizeNormalizer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCapture() {
	c.Capture.Source = strings.ToLower(strings.TrimSpace(c.Capture.Source))
	if c.Capture.Source == "" {
		c.Capture.Source = defaultCaptureSource
	}
	c.Capture.Format = strings.TrimSpace(c.Capture.Format)
	c.Capture.Input = strings.TrimSpace(c.Capture.Input)
	if c.Capture.FPS <= 0 {
		c.Capture.FPS = defaultCaptureFPS
	}
	if c.Capture.MaxEdge <= 0 {
		c.Capture.MaxEdge = defaultMaxEdge
	}
}

func (c *Config) normalizePipeline() {
	p := &c.Pipeline
	if p.MinIntervalMS <= 0 {
		p.MinIntervalMS = defaultMinIntervalMS
	}
	if p.ForceRefreshCycles <= 0 {
		p.ForceRefreshCycles = defaultForceRefreshCycles
	}
	if p.ImageDiffThreshold <= 0 {
		p.ImageDiffThreshold = defaultImageDiffThreshold
	}
	if p.SimilarityThreshold <= 0 {
		p.SimilarityThreshold = defaultSimilarityThreshold
	}
	if p.EditWeight <= 0 && p.WordWeight <= 0 {
		p.EditWeight = defaultEditWeight
		p.WordWeight = defaultWordWeight
	}
	if p.MinTextLength <= 0 {
		p.MinTextLength = defaultMinTextLength
	}
	if p.OCRTimeoutSeconds <= 0 {
		p.OCRTimeoutSeconds = defaultOCRTimeoutSeconds
	}
	if p.LLMTimeoutSeconds <= 0 {
		p.LLMTimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if p.CooldownSeconds <= 0 {
		p.CooldownSeconds = defaultCooldownSeconds
	}
}

func (c *Config) normalizeOCR() {
	c.OCR.Engine = strings.ToLower(strings.TrimSpace(c.OCR.Engine))
	if c.OCR.Engine == "" {
		c.OCR.Engine = defaultOCREngine
	}
	if strings.TrimSpace(c.OCR.Languages) == "" {
		c.OCR.Languages = defaultOCRLanguages
	}
	if c.OCR.AttemptTimeoutSeconds <= 0 {
		c.OCR.AttemptTimeoutSeconds = defaultAttemptTimeoutSeconds
	}
	if c.OCR.FallbackTimeoutSeconds <= 0 {
		c.OCR.FallbackTimeoutSeconds = defaultFallbackTimeoutSeconds
	}
	c.OCR.Baidu.APIKey = strings.TrimSpace(c.OCR.Baidu.APIKey)
	c.OCR.Baidu.SecretKey = strings.TrimSpace(c.OCR.Baidu.SecretKey)
	if strings.TrimSpace(c.OCR.Baidu.BaseURL) == "" {
		c.OCR.Baidu.BaseURL = defaultBaiduBaseURL
	}
	c.OCR.Baidu.BaseURL = strings.TrimRight(strings.TrimSpace(c.OCR.Baidu.BaseURL), "/")

	// "auto" prefers the cloud vendor but falls back to the local engine
	// when the cloud credentials are absent.
	if c.OCR.Engine == "auto" && c.OCR.Baidu.APIKey == "" {
		c.OCR.Engine = "tesseract"
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Provider == "deepseek" {
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = defaultDeepSeekBaseURL
		}
		if c.LLM.Model == "" {
			c.LLM.Model = defaultDeepSeekModel
		}
	}
	if strings.TrimSpace(c.LLM.SystemPrompt) == "" {
		c.LLM.SystemPrompt = DefaultSystemPrompt
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if strings.TrimSpace(c.LLM.Ollama.BaseURL) == "" {
		c.LLM.Ollama.BaseURL = defaultOllamaBaseURL
	}
	if c.LLM.Ollama.Port <= 0 {
		c.LLM.Ollama.Port = defaultOllamaPort
	}
	if strings.TrimSpace(c.LLM.Ollama.Model) == "" {
		c.LLM.Ollama.Model = defaultOllamaModel
	}
}

func (c *Config) normalizeNormalizer() {
	if len(c.Normalizer.Corrections) == 0 {
		c.Normalizer.Corrections = copyCorrections(defaultCorrections)
	}
	if len(c.Normalizer.QuestionKeywords) == 0 {
		c.Normalizer.QuestionKeywords = append([]string{}, defaultQuestionKeywords...)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}
