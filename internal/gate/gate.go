// Package gate decides which frames are worth recognizing and which
// recognized texts are actually new questions. It is the dedup core of the
// pipeline: everything upstream samples, everything downstream spends money.
package gate

import (
	"unicode/utf8"

	"glimpse/internal/frame"
	"glimpse/internal/textutil"
)

// Config carries the gate thresholds. Zero values are replaced with the
// pipeline defaults so a bare Gate still behaves sensibly in tests.
type Config struct {
	ImageDiffThreshold  float64
	ForceRefreshCycles  int
	SimilarityThreshold float64
	Weights             textutil.Weights
	MinTextLength       int
}

// Decision classifies one OCR result against the gate's current state.
type Decision int

const (
	// DecisionEmpty means the frame produced no text; prior state is kept.
	DecisionEmpty Decision = iota
	// DecisionTooShort means the text is below the minimum length and is
	// treated as recognition noise; prior state is kept.
	DecisionTooShort
	// DecisionDuplicate means the text is a re-reading of the question the
	// gate already accepted.
	DecisionDuplicate
	// DecisionNewQuestion means the text replaced the gate's accepted
	// question and should be answered.
	DecisionNewQuestion
)

func (d Decision) String() string {
	switch d {
	case DecisionEmpty:
		return "empty"
	case DecisionTooShort:
		return "too_short"
	case DecisionDuplicate:
		return "duplicate"
	case DecisionNewQuestion:
		return "new_question"
	default:
		return "unknown"
	}
}

// Gate holds the dedup state for one capture session. It is not safe for
// concurrent use; the scheduler serializes all calls.
type Gate struct {
	cfg Config

	prevFrame  []byte
	skipped    int
	recognized string
}

func New(cfg Config) *Gate {
	if cfg.ImageDiffThreshold <= 0 {
		cfg.ImageDiffThreshold = 0.01
	}
	if cfg.ForceRefreshCycles <= 0 {
		cfg.ForceRefreshCycles = 5
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.7
	}
	if cfg.Weights.Edit == 0 && cfg.Weights.Word == 0 {
		cfg.Weights = textutil.DefaultWeights()
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 10
	}
	return &Gate{cfg: cfg}
}

// ShouldRecognize reports whether the frame looks different enough from the
// last recognized frame to justify OCR. Visually identical frames are
// skipped, but never indefinitely: after ForceRefreshCycles consecutive
// skips the next frame goes through regardless, so a stuck comparison frame
// cannot wedge the pipeline.
func (g *Gate) ShouldRecognize(frameData []byte) (bool, float64) {
	if g.prevFrame == nil {
		g.prevFrame = frameData
		return true, 1
	}
	diff := frame.Difference(g.prevFrame, frameData)
	if diff < g.cfg.ImageDiffThreshold {
		g.skipped++
		if g.skipped >= g.cfg.ForceRefreshCycles {
			g.skipped = 0
			g.prevFrame = frameData
			return true, diff
		}
		return false, diff
	}
	g.skipped = 0
	g.prevFrame = frameData
	return true, diff
}

// Evaluate classifies normalized OCR text. Empty and too-short results leave
// the accepted question untouched so a momentary OCR dropout cannot make the
// same question look new again. A genuinely different text replaces the
// accepted question immediately.
func (g *Gate) Evaluate(text string) (Decision, float64) {
	if text == "" {
		return DecisionEmpty, 0
	}
	if utf8.RuneCountInString(text) < g.cfg.MinTextLength {
		return DecisionTooShort, 0
	}
	if g.recognized != "" {
		score := textutil.WeightedSimilarity(g.recognized, text, g.cfg.Weights)
		if score >= g.cfg.SimilarityThreshold {
			return DecisionDuplicate, score
		}
		g.recognized = text
		return DecisionNewQuestion, score
	}
	g.recognized = text
	return DecisionNewQuestion, 0
}

// Recognized returns the currently accepted question text.
func (g *Gate) Recognized() string { return g.recognized }

// Reset clears all dedup state, as on session restart.
func (g *Gate) Reset() {
	g.prevFrame = nil
	g.skipped = 0
	g.recognized = ""
}
