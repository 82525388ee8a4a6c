package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/blueberrycongee/cursorlens/internal/media"
	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

// OpenAIBackend transcribes with the OpenAI Audio API. The recording's audio
// track is exported first; transcription requests word-level timestamps.
type OpenAIBackend struct {
	client   openai.Client
	model    string
	exporter media.Exporter
}

// word from the Whisper verbose_json response
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string        `json:"text"`
	Words    []whisperWord `json:"words"`
	Language string        `json:"language"`
	Duration float64       `json:"duration"`
}

func NewOpenAIBackend(apiKey, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "whisper-1"
	}
	return &OpenAIBackend{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		exporter: media.NewProcessor(),
	}, nil
}

func (b *OpenAIBackend) Transcribe(ctx context.Context, inputPath, locale string) (*Result, error) {
	audioPath, cleanup, err := exportForCloud(ctx, b.exporter, inputPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, NewError(CodeAudioExportFailed)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(b.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word"},
	}
	if lang := localePrimaryTag(locale); lang != "" {
		params.Language = openai.String(lang)
	}

	resp, err := b.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewError(CodeTimeout)
		}
		return nil, &Error{Code: CodeTranscriptionFailed, Message: fmt.Sprintf("transcription failed: %v", err)}
	}

	words, text := parseWhisperWords(resp.RawJSON())
	if text == "" {
		text = strings.TrimSpace(resp.Text)
	}
	return finishResult(locale, text, words), nil
}

func parseWhisperWords(rawJSON string) ([]subtitle.Word, string) {
	if rawJSON == "" {
		return nil, ""
	}
	var verbose whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verbose); err != nil {
		return nil, ""
	}

	words := make([]subtitle.Word, 0, len(verbose.Words))
	for _, w := range verbose.Words {
		words = append(words, subtitle.Word{
			Text:    strings.TrimSpace(w.Word),
			StartMs: int64(w.Start * 1000),
			EndMs:   int64(w.End * 1000),
		})
	}
	return words, strings.TrimSpace(verbose.Text)
}

// localePrimaryTag reduces a BCP 47 tag like "en-US" to the bare language
// code the Whisper API accepts.
func localePrimaryTag(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}

// exportForCloud writes a compressed mono audio file for upload. Failures
// surface as audio_export_failed.
func exportForCloud(ctx context.Context, exporter media.Exporter, inputPath string) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "cursorlens-audio-*")
	if err != nil {
		return "", nil, NewError(CodeAudioExportFailed)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	audioPath := filepath.Join(tempDir, "audio.mp3")
	if err := exporter.ExportAudio(ctx, inputPath, audioPath, media.DefaultExportAudioOptions()); err != nil {
		cleanup()
		return "", nil, &Error{Code: CodeAudioExportFailed, Message: CodeAudioExportFailed.Message()}
	}
	return audioPath, cleanup, nil
}
