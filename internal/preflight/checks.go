package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"glimpse/internal/config"
	"glimpse/internal/services/llm"
	"glimpse/internal/services/ocr"
)

// CheckLLM verifies that a hosted chat API is reachable and the key is
// valid. Single attempt with a 30-second bound.
func CheckLLM(ctx context.Context, cfg config.LLM) Result {
	name := "LLM (" + cfg.Provider + ")"
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewChatClient(cfg.Provider, cfg.APIKey, cfg.BaseURL, cfg.Model, "")
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeNetworkError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckOllama verifies a local Ollama instance is listening.
func CheckOllama(ctx context.Context, cfg config.Ollama) Result {
	const name = "Ollama"

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	endpoint := fmt.Sprintf("%s:%d/api/tags", base, cfg.Port)

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetworkError(err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Reachable, model %s", cfg.Model)}
}

// CheckBaidu verifies Baidu OCR credentials by fetching an access token.
func CheckBaidu(ctx context.Context, cfg config.Baidu) Result {
	const name = "Baidu OCR"

	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return Result{Name: name, Detail: "api key or secret key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	engine := ocrEngineForCheck(cfg)
	if _, err := engine.Recognize(checkCtx, []byte("probe")); err != nil {
		// A token-stage failure means bad credentials; a recognition-stage
		// failure means the credentials worked.
		if strings.Contains(err.Error(), "token") {
			return Result{Name: name, Detail: summarizeNetworkError(err)}
		}
	}
	return Result{Name: name, Passed: true, Detail: "credentials accepted"}
}

func ocrEngineForCheck(cfg config.Baidu) *ocr.BaiduEngine {
	return ocr.NewBaiduEngine(cfg.APIKey, cfg.SecretKey, ocr.WithBaiduBaseURL(cfg.BaseURL))
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeNetworkError produces a human-readable summary for connectivity failures.
func summarizeNetworkError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (endpoint unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (endpoint unreachable)"
	}
	return err.Error()
}
