package ocr

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"glimpse/internal/logging"
)

func TestMergeAttempts(t *testing.T) {
	cases := []struct {
		name     string
		attempts []Attempt
		want     string
	}{
		{
			name: "longest text wins",
			attempts: []Attempt{
				{Profile: "block", Text: "short"},
				{Profile: "sparse", Text: "a longer recognition result"},
			},
			want: "a longer recognition result",
		},
		{
			name: "failed attempts skipped",
			attempts: []Attempt{
				{Profile: "block", Text: "usable", Err: nil},
				{Profile: "sparse", Text: "longer but failed anyway", Err: errors.New("boom")},
			},
			want: "usable",
		},
		{
			name: "whitespace trimmed before comparing",
			attempts: []Attempt{
				{Profile: "block", Text: "   \n  "},
				{Profile: "sparse", Text: "  real text  "},
			},
			want: "real text",
		},
		{
			name:     "all empty",
			attempts: []Attempt{{Profile: "block"}, {Profile: "sparse"}},
			want:     "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MergeAttempts(tc.attempts); got != tc.want {
				t.Errorf("MergeAttempts = %q, want %q", got, tc.want)
			}
		})
	}
}

type fakeRunner struct {
	calls   atomic.Int64
	outputs map[string]string
	err     error
}

func (f *fakeRunner) Output(_ context.Context, _ string, args []string) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	psm := ""
	for i, arg := range args {
		if arg == "--psm" && i+1 < len(args) {
			psm = args[i+1]
		}
	}
	return []byte(f.outputs[psm]), nil
}

func TestTesseractRecognizePicksBestProfile(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"6": "block result\n",
		"3": "a much longer sparse result here\n",
	}}
	engine := NewTesseractEngine("tesseract", "chi_sim+eng", logging.NewNop(), withRunner(runner))

	text, err := engine.Recognize(context.Background(), []byte{0xFF, 0xD8, 0xFF, 0xD9})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "a much longer sparse result here" {
		t.Errorf("text = %q", text)
	}
	if runner.calls.Load() != 2 {
		t.Errorf("runner called %d times, want 2", runner.calls.Load())
	}
}

func TestTesseractRecognizeFallsBackWhenProfilesEmpty(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"6": "",
		"3": "",
		"":  "fallback caught it",
	}}
	engine := NewTesseractEngine("tesseract", "eng", logging.NewNop(), withRunner(runner))

	text, err := engine.Recognize(context.Background(), []byte{0xFF})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "fallback caught it" {
		t.Errorf("text = %q", text)
	}
	if runner.calls.Load() != 3 {
		t.Errorf("runner called %d times, want 3 (two profiles plus fallback)", runner.calls.Load())
	}
}

func TestTesseractRecognizeTotalFailureReturnsEmpty(t *testing.T) {
	runner := &fakeRunner{err: errors.New("tesseract exploded")}
	engine := NewTesseractEngine("tesseract", "eng", logging.NewNop(), withRunner(runner))

	text, err := engine.Recognize(context.Background(), []byte{0xFF})
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestTesseractRecognizeRejectsEmptyImage(t *testing.T) {
	engine := NewTesseractEngine("tesseract", "eng", logging.NewNop())
	if _, err := engine.Recognize(context.Background(), nil); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestTesseractProfileArgs(t *testing.T) {
	var captured []string
	runner := &captureRunner{args: &captured}
	engine := NewTesseractEngine("tesseract", "chi_sim+eng", logging.NewNop(),
		WithProfiles([]Profile{{Name: "block", PSM: 6, Config: []string{"preserve_interword_spaces=1"}}}),
		withRunner(runner),
	)
	if _, err := engine.Recognize(context.Background(), []byte{0xFF}); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	joined := strings.Join(captured, " ")
	for _, want := range []string{"stdout", "-l chi_sim+eng", "--psm 6", "-c preserve_interword_spaces=1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}

type captureRunner struct {
	args *[]string
}

func (c *captureRunner) Output(_ context.Context, _ string, args []string) ([]byte, error) {
	if len(*c.args) == 0 {
		*c.args = append(*c.args, args...)
	}
	return []byte("text"), nil
}
