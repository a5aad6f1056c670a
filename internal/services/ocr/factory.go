package ocr

import (
	"log/slog"
	"time"

	"glimpse/internal/config"
	"glimpse/internal/services"
)

// New builds the configured engine. The "auto" selector is resolved during
// config normalization, so only concrete engine names arrive here.
func New(cfg config.OCR, binary string, logger *slog.Logger) (Engine, error) {
	switch cfg.Engine {
	case "tesseract":
		return NewTesseractEngine(binary, cfg.Languages, logger,
			WithTimeouts(
				services.Seconds(cfg.AttemptTimeoutSeconds, 25*time.Second),
				services.Seconds(cfg.FallbackTimeoutSeconds, 10*time.Second),
			),
		), nil
	case "baidu":
		engine := NewBaiduEngine(cfg.Baidu.APIKey, cfg.Baidu.SecretKey, WithBaiduBaseURL(cfg.Baidu.BaseURL))
		return engine, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "ocr", "new", "unknown engine "+cfg.Engine, nil)
	}
}
