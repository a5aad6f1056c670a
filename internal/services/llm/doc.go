// Package llm answers extracted questions with a language model. Hosted
// providers (DeepSeek, SiliconFlow) share one chat-completions client; local
// inference goes through an Ollama-backed agent.
package llm
