// Package backend abstracts the completion providers glint can talk to: the
// claude CLI as a local subprocess, the hosted Anthropic and OpenAI APIs,
// and user-defined HTTP backends described in YAML. All implementations must
// be safe for concurrent use.
package backend

import "context"

// Request is one completion call. The prompt is already fully rendered;
// backends only transport it.
type Request struct {
	// Prompt is the complete prompt text.
	Prompt string

	// Model overrides the backend's configured model when non-empty.
	Model string

	// Images holds PNG-encoded screenshots for extraction operations.
	// Backends without image support must reject a request that has any.
	Images [][]byte

	// MaxTokens caps the response length for hosted APIs. 0 uses the
	// backend default.
	MaxTokens int
}

// Response is the raw completion. Text goes to the extractor unparsed.
type Response struct {
	Text  string
	Model string
}

// Caps are self-describing feature flags for backend discovery.
type Caps struct {
	// Images reports whether the backend accepts image inputs.
	Images bool

	// Local reports whether completions run as a local subprocess rather
	// than a network call.
	Local bool
}

// Backend is a completion provider.
type Backend interface {
	// Name returns the unique lowercase identifier (e.g. "claude-cli").
	Name() string

	// Caps returns the backend's feature flags.
	Caps() Caps

	// Validate checks that the backend is usable: binary installed,
	// credentials present. It must not issue a completion.
	Validate(ctx context.Context) error

	// Complete runs one completion. Errors are classified
	// (*errors.ClassifiedError) so callers can retry and report them.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Models returns the model identifiers this backend can serve.
	Models(ctx context.Context) ([]string, error)
}
