package preflight

import (
	"context"

	"glimpse/internal/config"
	"glimpse/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run for the backends the config actually selects.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	switch cfg.LLM.Provider {
	case "deepseek", "siliconflow":
		results = append(results, CheckLLM(ctx, cfg.LLM))
	case "ollama":
		results = append(results, CheckOllama(ctx, cfg.LLM.Ollama))
	}

	if cfg.OCR.Engine == "baidu" {
		results = append(results, CheckBaidu(ctx, cfg.OCR.Baidu))
	}

	return results
}

// CheckSystemDeps evaluates all binary dependencies for the given config.
// Both the daemon and the doctor command use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{}
	if cfg.Capture.Source == "ffmpeg" {
		requirements = append(requirements, deps.Requirement{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for screen capture",
		})
	}
	if cfg.OCR.Engine == "tesseract" {
		requirements = append(requirements, deps.Requirement{
			Name:        "Tesseract",
			Command:     cfg.TesseractBinary(),
			Description: "Required for local text recognition",
		})
	}
	return deps.CheckBinaries(requirements)
}
