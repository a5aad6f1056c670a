package config

const (
	defaultLogDir    = "~/.local/share/glimpse/logs"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultCaptureSource = "ffmpeg"
	defaultCaptureFPS    = 2
	defaultMaxEdge       = 1600

	defaultMinIntervalMS       = 5000
	defaultForceRefreshCycles  = 5
	defaultImageDiffThreshold  = 0.01
	defaultSimilarityThreshold = 0.7
	defaultEditWeight          = 0.7
	defaultWordWeight          = 0.3
	defaultMinTextLength       = 10
	defaultOCRTimeoutSeconds   = 15
	defaultLLMTimeoutSeconds   = 20
	defaultCooldownSeconds     = 1

	defaultOCREngine              = "tesseract"
	defaultOCRLanguages           = "chi_sim+eng"
	defaultAttemptTimeoutSeconds  = 25
	defaultFallbackTimeoutSeconds = 10
	defaultBaiduBaseURL           = "https://aip.baidubce.com"

	defaultLLMProvider       = "deepseek"
	defaultDeepSeekBaseURL   = "https://api.deepseek.com"
	defaultDeepSeekModel     = "deepseek-chat"
	defaultOllamaBaseURL     = "http://localhost"
	defaultOllamaPort        = 11434
	defaultOllamaModel       = "llama3.2"
	defaultNotifyTimeout     = 10
)

// defaultCorrections fixes characters OCR engines commonly confuse on
// CJK quiz material: traditional or lookalike glyphs misread for the
// simplified form actually on screen.
var defaultCorrections = map[string]string{
	"曰": "日",
	"己": "已",
	"末": "未",
	"象": "像",
	"專": "专",
	"車": "车",
	"傳": "传",
	"東": "东",
	"馬": "马",
	"個": "个",
}

// defaultQuestionKeywords marks a text as a question when it starts with
// one of these interrogatives, even without a question mark.
var defaultQuestionKeywords = []string{
	"what", "how", "why", "when", "where", "which", "who", "whose", "whom",
	"是什么", "如何", "为什么", "什么时候", "在哪里", "哪一个", "谁", "谁的",
	"请问", "解释", "计算", "求", "证明", "分析", "比较", "评价", "讨论",
	"列举", "概述", "总结",
}

// DefaultSystemPrompt is the instruction sent with every question unless the
// config overrides it. It tells the model to tolerate OCR noise and answer
// decisively, answer first.
const DefaultSystemPrompt = "You are a quiz-solving assistant. The input text " +
	"comes from OCR and may contain recognition errors, garbled characters, or " +
	"unrelated fragments; identify the core question and ignore the noise. " +
	"Always answer in the format: [Answer] option/result + brief explanation. " +
	"Be decisive: for multiple choice give the correct option directly, for " +
	"open questions give a short definite answer. Never hedge with phrases " +
	"like \"I think\" or \"possibly\". Reply in the language of the question."

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Capture: Capture{
			Source:  defaultCaptureSource,
			FPS:     defaultCaptureFPS,
			MaxEdge: defaultMaxEdge,
		},
		Pipeline: Pipeline{
			MinIntervalMS:       defaultMinIntervalMS,
			ForceRefreshCycles:  defaultForceRefreshCycles,
			ImageDiffThreshold:  defaultImageDiffThreshold,
			SimilarityThreshold: defaultSimilarityThreshold,
			EditWeight:          defaultEditWeight,
			WordWeight:          defaultWordWeight,
			MinTextLength:       defaultMinTextLength,
			OCRTimeoutSeconds:   defaultOCRTimeoutSeconds,
			LLMTimeoutSeconds:   defaultLLMTimeoutSeconds,
			CooldownSeconds:     defaultCooldownSeconds,
		},
		OCR: OCR{
			Engine:                 defaultOCREngine,
			Languages:              defaultOCRLanguages,
			AttemptTimeoutSeconds:  defaultAttemptTimeoutSeconds,
			FallbackTimeoutSeconds: defaultFallbackTimeoutSeconds,
			Baidu: Baidu{
				BaseURL: defaultBaiduBaseURL,
			},
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			BaseURL:        defaultDeepSeekBaseURL,
			Model:          defaultDeepSeekModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			Ollama: Ollama{
				BaseURL: defaultOllamaBaseURL,
				Port:    defaultOllamaPort,
				Model:   defaultOllamaModel,
			},
		},
		Normalizer: Normalizer{
			Corrections:      copyCorrections(defaultCorrections),
			QuestionKeywords: append([]string{}, defaultQuestionKeywords...),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Questions:      true,
			Answers:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func copyCorrections(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
