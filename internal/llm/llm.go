// Package llm wraps the hosted model provider behind a narrow client
// interface: chat completion (text and vision), audio transcription, speech
// synthesis, and embeddings. The provider is treated as a black box; callers
// only see strings, bytes, and vectors.
package llm

import "context"

// Client abstracts the hosted model provider. Implementations wrap an
// OpenAI-compatible HTTP API; tests use Stub.
type Client interface {
	// Complete sends a system+user prompt pair and returns the raw reply.
	// When structured is true the provider is asked for its strict JSON
	// object response mode.
	Complete(ctx context.Context, system, user string, structured bool) (string, error)

	// CompleteVision is Complete with an inlined image.
	CompleteVision(ctx context.Context, system, user string, image []byte, mime string, structured bool) (string, error)

	// Transcribe converts spoken audio to plain text. languageHint may be
	// empty.
	Transcribe(ctx context.Context, audio []byte, filename, languageHint string) (string, error)

	// Speak synthesizes speech for text and returns the audio bytes (MP3).
	Speak(ctx context.Context, text string) ([]byte, error)

	// Embed returns one fixed-dimension vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
