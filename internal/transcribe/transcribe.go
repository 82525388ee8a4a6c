package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

// Result is a completed transcription.
type Result struct {
	Locale      string          `json:"locale"`
	Text        string          `json:"text"`
	Words       []subtitle.Word `json:"words"`
	CreatedAtMs int64           `json:"createdAtMs"`
}

// Backend transcribes one media file. Implementations classify failures as
// *Error so callers can map them to user-facing messages.
type Backend interface {
	Transcribe(ctx context.Context, inputPath, locale string) (*Result, error)
}

// Provider selects a transcription backend.
type Provider string

const (
	ProviderNative Provider = "native"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Options configures backend construction.
type Options struct {
	Timeout time.Duration // wall-clock limit per transcription
	APIKey  string        // cloud providers only
	Model   string        // cloud providers only
}

// Factory creates a backend for the given provider.
func Factory(ctx context.Context, provider Provider, opts Options) (Backend, error) {
	switch provider {
	case ProviderNative:
		return NewNativeBackend(opts.Timeout), nil
	case ProviderOpenAI:
		return NewOpenAIBackend(opts.APIKey, opts.Model)
	case ProviderGemini:
		return NewGeminiBackend(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// finishResult validates, sorts, and stamps a raw word list.
func finishResult(locale, text string, words []subtitle.Word) *Result {
	return &Result{
		Locale:      locale,
		Text:        text,
		Words:       subtitle.NormalizeWords(words),
		CreatedAtMs: time.Now().UnixMilli(),
	}
}
