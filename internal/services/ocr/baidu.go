package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"glimpse/internal/services"
)

const (
	defaultBaiduBaseURL = "https://aip.baidubce.com"
	accurateBasicPath   = "/rest/2.0/ocr/v1/accurate_basic"
	tokenPath           = "/oauth/2.0/token"

	// tokenRefreshMargin renews the cached token well before the server
	// side expiry so an in-flight request never races the deadline.
	tokenRefreshMargin = 5 * time.Minute
)

// BaiduEngine calls Baidu's high-accuracy OCR endpoint. Access tokens are
// fetched lazily and cached until close to expiry.
type BaiduEngine struct {
	apiKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// BaiduOption customizes the engine.
type BaiduOption func(*BaiduEngine)

func WithBaiduHTTPClient(client *http.Client) BaiduOption {
	return func(e *BaiduEngine) {
		if client != nil {
			e.httpClient = client
		}
	}
}

func WithBaiduBaseURL(base string) BaiduOption {
	return func(e *BaiduEngine) {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base != "" {
			e.baseURL = base
		}
	}
}

func NewBaiduEngine(apiKey, secretKey string, opts ...BaiduOption) *BaiduEngine {
	engine := &BaiduEngine{
		apiKey:     strings.TrimSpace(apiKey),
		secretKey:  strings.TrimSpace(secretKey),
		baseURL:    defaultBaiduBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *BaiduEngine) Name() string { return "baidu" }

func (e *BaiduEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", services.Wrap(services.ErrValidation, "baidu", "recognize", "empty image", nil)
	}
	token, err := e.accessToken(ctx)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s%s?access_token=%s", e.baseURL, accurateBasicPath, url.QueryEscape(token))
	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(image))
	form.Set("language_type", "CHN_ENG")
	form.Set("paragraph", "true")
	form.Set("detect_direction", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "baidu", "recognize", "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "baidu", "recognize", "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "baidu", "recognize", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		detail := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return "", services.Wrap(services.ErrTransient, "baidu", "recognize", detail, nil)
	}

	var result struct {
		WordsResult []struct {
			Words string `json:"words"`
		} `json:"words_result"`
		ErrorCode int    `json:"error_code"`
		ErrorMsg  string `json:"error_msg"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", services.Wrap(services.ErrTransient, "baidu", "recognize", "decode response", err)
	}
	if result.ErrorCode != 0 {
		// An expired token means the cache is stale; drop it so the next
		// call re-authenticates.
		if result.ErrorCode == 110 || result.ErrorCode == 111 {
			e.invalidateToken()
		}
		detail := fmt.Sprintf("api error %d: %s", result.ErrorCode, result.ErrorMsg)
		return "", services.Wrap(services.ErrTransient, "baidu", "recognize", detail, nil)
	}

	lines := make([]string, 0, len(result.WordsResult))
	for _, entry := range result.WordsResult {
		if word := strings.TrimSpace(entry.Words); word != "" {
			lines = append(lines, word)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (e *BaiduEngine) accessToken(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.token != "" && time.Now().Before(e.tokenExpiry) {
		return e.token, nil
	}

	if e.apiKey == "" || e.secretKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "baidu", "token", "api key and secret key required", nil)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", e.apiKey)
	form.Set("client_secret", e.secretKey)
	endpoint := e.baseURL + tokenPath + "?" + form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "baidu", "token", "build request", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "baidu", "token", "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "baidu", "token", "read body", err)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
		Error       string `json:"error"`
		ErrorDesc   string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", services.Wrap(services.ErrTransient, "baidu", "token", "decode response", err)
	}
	if payload.Error != "" {
		detail := payload.Error + ": " + payload.ErrorDesc
		return "", services.Wrap(services.ErrConfiguration, "baidu", "token", detail, nil)
	}
	if payload.AccessToken == "" {
		return "", services.Wrap(services.ErrTransient, "baidu", "token", "empty access token", nil)
	}

	e.token = payload.AccessToken
	expiry := time.Duration(payload.ExpiresIn) * time.Second
	if expiry > tokenRefreshMargin {
		expiry -= tokenRefreshMargin
	}
	e.tokenExpiry = time.Now().Add(expiry)
	return e.token, nil
}

func (e *BaiduEngine) invalidateToken() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.token = ""
	e.tokenExpiry = time.Time{}
}
