package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCapture() error {
	switch c.Capture.Source {
	case "ffmpeg", "replay":
	default:
		return fmt.Errorf("capture.source must be \"ffmpeg\" or \"replay\", got %q", c.Capture.Source)
	}
	if c.Capture.Source == "replay" && c.Capture.Input == "" {
		return errors.New("capture.input must point to a frame directory when capture.source is \"replay\"")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	p := c.Pipeline
	if p.ImageDiffThreshold > 1 {
		return errors.New("pipeline.image_diff_threshold must be between 0 and 1")
	}
	if p.SimilarityThreshold > 1 {
		return errors.New("pipeline.similarity_threshold must be between 0 and 1")
	}
	if p.EditWeight < 0 || p.WordWeight < 0 {
		return errors.New("pipeline similarity weights must not be negative")
	}
	if p.EditWeight+p.WordWeight <= 0 {
		return errors.New("pipeline similarity weights must not both be zero")
	}
	return nil
}

func (c *Config) validateOCR() error {
	switch c.OCR.Engine {
	case "tesseract", "baidu", "auto":
	default:
		return fmt.Errorf("ocr.engine must be \"tesseract\", \"baidu\", or \"auto\", got %q", c.OCR.Engine)
	}
	if c.OCR.Engine == "baidu" {
		if c.OCR.Baidu.APIKey == "" || c.OCR.Baidu.SecretKey == "" {
			return errors.New("ocr.baidu.api_key and ocr.baidu.secret_key must be set when ocr.engine is \"baidu\"")
		}
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case "deepseek", "siliconflow", "ollama":
	default:
		return fmt.Errorf("llm.provider must be \"deepseek\", \"siliconflow\", or \"ollama\", got %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "siliconflow" {
		if c.LLM.BaseURL == "" {
			return errors.New("llm.base_url must be set when llm.provider is \"siliconflow\"")
		}
		if c.LLM.Model == "" {
			return errors.New("llm.model must be set when llm.provider is \"siliconflow\"")
		}
	}
	if (c.LLM.Provider == "deepseek" || c.LLM.Provider == "siliconflow") && c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/glimpse/config.toml"
		}
		return fmt.Errorf("llm.api_key is required for provider %q; edit %s (create with 'glimpse config new')", c.LLM.Provider, defaultPath)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
