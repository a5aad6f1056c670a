package textutil

import "testing"

func testNormalizer() *Normalizer {
	return NewNormalizer(
		map[string]string{"曰": "日", "末": "未", "車": "车"},
		[]string{"what", "which", "什么", "哪个", "以下"},
	)
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := testNormalizer()
	if got := n.Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want empty", got)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	n := testNormalizer()
	got := n.Normalize("hello   world\n\tfoo")
	if got != "hello world foo" {
		t.Errorf("Normalize = %q, want %q", got, "hello world foo")
	}
}

func TestNormalizeStripsNoise(t *testing.T) {
	n := testNormalizer()
	got := n.Normalize("r€sult±☃ value")
	if got != "rsult value" {
		t.Errorf("Normalize = %q, want %q", got, "rsult value")
	}
}

func TestNormalizeCollapsesRepeatedPunctuation(t *testing.T) {
	n := testNormalizer()
	// The question mark also triggers question extraction, which keeps only
	// the interrogative sentence.
	got := n.Normalize("Really??? Yes!!!")
	if got != "Really?" {
		t.Errorf("Normalize = %q, want %q", got, "Really?")
	}
}

func TestCollapseRepeatedPunct(t *testing.T) {
	got := collapseRepeatedPunct("Really??? Yes!!!")
	if got != "Really? Yes!" {
		t.Errorf("collapseRepeatedPunct = %q, want %q", got, "Really? Yes!")
	}
}

func TestNormalizeAppliesCorrections(t *testing.T) {
	n := testNormalizer()
	got := n.Normalize("星期曰")
	if got != "星期日" {
		t.Errorf("Normalize = %q, want %q", got, "星期日")
	}
}

func TestNormalizeFoldsFullWidthCharacters(t *testing.T) {
	n := testNormalizer()
	got := n.Normalize("ＡＢＣ１２３")
	if got != "ABC123" {
		t.Errorf("Normalize = %q, want %q", got, "ABC123")
	}
}

func TestNormalizeKeepsFullWidthPunctuation(t *testing.T) {
	n := testNormalizer()
	// Folding must not touch CJK punctuation: the full-width question mark
	// stays full-width through the whole pipeline.
	got := n.Normalize("１２题：下列哪个是正确的？")
	if got != "12题：下列哪个是正确的？" {
		t.Errorf("Normalize = %q, want %q", got, "12题：下列哪个是正确的？")
	}
}

func TestNormalizeExtractsQuestionSentence(t *testing.T) {
	n := testNormalizer()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops preamble before question",
			in:   "Round 3. What is the capital of France?",
			want: "What is the capital of France?",
		},
		{
			name: "cjk question mark",
			in:   "第三题。下列哪个是正确的？",
			want: "下列哪个是正确的？",
		},
		{
			name: "keyword question without question mark",
			in:   "which option comes next",
			want: "which option comes next",
		},
		{
			name: "multiple question sentences joined",
			in:   "What is A? What is B?",
			want: "What is A? What is B?",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeNonQuestionPassesThrough(t *testing.T) {
	n := testNormalizer()
	got := n.Normalize("Loading next round. Please wait.")
	if got != "Loading next round. Please wait." {
		t.Errorf("Normalize = %q, want input preserved", got)
	}
}

func TestSplitSentencesKeepsTerminators(t *testing.T) {
	got := splitSentences("One. Two? Three")
	want := []string{"One.", "Two?", "Three"}
	if len(got) != len(want) {
		t.Fatalf("splitSentences = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}
