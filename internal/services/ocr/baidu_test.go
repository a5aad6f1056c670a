package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newBaiduServer(t *testing.T, tokenCalls *atomic.Int64, words []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "token-123",
				"expires_in":   2592000,
			})
		case accurateBasicPath:
			if got := r.URL.Query().Get("access_token"); got != "token-123" {
				t.Errorf("access_token = %q", got)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse form: %v", err)
			}
			if r.PostForm.Get("image") == "" {
				t.Error("image form field missing")
			}
			if got := r.PostForm.Get("language_type"); got != "CHN_ENG" {
				t.Errorf("language_type = %q, want CHN_ENG", got)
			}
			if got := r.PostForm.Get("paragraph"); got != "true" {
				t.Errorf("paragraph = %q, want true", got)
			}
			if got := r.PostForm.Get("detect_direction"); got != "true" {
				t.Errorf("detect_direction = %q, want true", got)
			}
			result := make([]map[string]string, 0, len(words))
			for _, w := range words {
				result = append(result, map[string]string{"words": w})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"words_result": result})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestBaiduRecognize(t *testing.T) {
	var tokenCalls atomic.Int64
	server := newBaiduServer(t, &tokenCalls, []string{"第三题", "下列哪个是正确的？"})
	defer server.Close()

	engine := NewBaiduEngine("ak", "sk", WithBaiduBaseURL(server.URL))
	text, err := engine.Recognize(context.Background(), []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	want := "第三题\n下列哪个是正确的？"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestBaiduTokenCached(t *testing.T) {
	var tokenCalls atomic.Int64
	server := newBaiduServer(t, &tokenCalls, []string{"text"})
	defer server.Close()

	engine := NewBaiduEngine("ak", "sk", WithBaiduBaseURL(server.URL))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := engine.Recognize(ctx, []byte("image")); err != nil {
			t.Fatalf("Recognize %d: %v", i, err)
		}
	}
	if tokenCalls.Load() != 1 {
		t.Errorf("token fetched %d times, want 1", tokenCalls.Load())
	}
}

func TestBaiduExpiredTokenInvalidatesCache(t *testing.T) {
	var tokenCalls atomic.Int64
	expired := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "t", "expires_in": 2592000})
		case accurateBasicPath:
			if expired {
				expired = false
				_ = json.NewEncoder(w).Encode(map[string]any{"error_code": 110, "error_msg": "token expired"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"words_result": []map[string]string{{"words": "ok"}}})
		}
	}))
	defer server.Close()

	engine := NewBaiduEngine("ak", "sk", WithBaiduBaseURL(server.URL))
	ctx := context.Background()
	if _, err := engine.Recognize(ctx, []byte("image")); err == nil {
		t.Fatal("expected error for expired token")
	}
	text, err := engine.Recognize(ctx, []byte("image"))
	if err != nil {
		t.Fatalf("second Recognize: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q", text)
	}
	if tokenCalls.Load() != 2 {
		t.Errorf("token fetched %d times, want 2", tokenCalls.Load())
	}
}

func TestBaiduMissingCredentials(t *testing.T) {
	engine := NewBaiduEngine("", "")
	if _, err := engine.Recognize(context.Background(), []byte("image")); err == nil {
		t.Error("expected error without credentials")
	}
}
