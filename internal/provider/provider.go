// Package provider defines the engine's sole dependency on an external
// LLM: a narrow Translate/Ping contract concrete providers implement.
// The engine is agnostic to which provider backs it; only the adapter
// knows about the wire format of a specific vendor's API.
package provider

import "context"

// Request carries everything one LLM call needs. APIKey and Model are
// forwarded verbatim from the translation request; the engine never
// inspects or validates them beyond presence.
type Request struct {
	Prompt    string
	Model     string
	APIKey    string
	MaxTokens int
}

// Result is what a successful call returns. Token counts are zero when
// the provider does not report usage.
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Client is the engine's dependency boundary on the LLM. Translate may
// fail with a retriable error (transport hiccup, rate limit) or a
// terminal one (wrapped with backoff.Permanent) that retrying cannot fix.
type Client interface {
	Translate(ctx context.Context, req Request) (Result, error)
	Ping(ctx context.Context) error
}
