// Package llm provides the transport to generative text providers used as the
// address extraction oracle. It supports Gemini (schema-constrained JSON output),
// OpenAI and Anthropic behind a single Client interface, plus a token-bucket
// rate limiter shared by callers.
package llm
