package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/blueberrycongee/cursorlens/internal/media"
	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

// GeminiBackend transcribes with Google Gemini, asking the model for a
// word-timestamped JSON transcript.
type GeminiBackend struct {
	client   *genai.Client
	model    string
	exporter media.Exporter
}

// word entry in Gemini's JSON response
type geminiWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiBackend{
		client:   client,
		model:    model,
		exporter: media.NewProcessor(),
	}, nil
}

func (b *GeminiBackend) Transcribe(ctx context.Context, inputPath, locale string) (*Result, error) {
	audioPath, cleanup, err := exportForCloud(ctx, b.exporter, inputPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	uploadedFile, err := b.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, &Error{Code: CodeTranscriptionFailed, Message: fmt.Sprintf("failed to upload audio: %v", err)}
	}
	defer func() {
		_, _ = b.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(buildWordPrompt(locale)),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := b.client.Models.GenerateContent(ctx, b.model, contents, nil)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewError(CodeTimeout)
		}
		return nil, &Error{Code: CodeTranscriptionFailed, Message: fmt.Sprintf("transcription failed: %v", err)}
	}

	words, err := parseGeminiWords(result)
	if err != nil {
		return nil, &Error{Code: CodeTranscriptionFailed, Message: err.Error()}
	}
	return finishResult(locale, subtitle.JoinWords(words), words), nil
}

func buildWordPrompt(locale string) string {
	var sb strings.Builder
	sb.WriteString("Generate a word-level transcript of this audio. ")
	sb.WriteString("For every spoken word, provide its start timestamp, end timestamp, and text. ")
	sb.WriteString("Format your response as a JSON array of objects with 'word', 'start', and 'end' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers). ")
	if locale != "" {
		sb.WriteString(fmt.Sprintf("The audio is in locale %s. ", locale))
	}
	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")
	return sb.String()
}

func parseGeminiWords(result *genai.GenerateContentResponse) ([]subtitle.Word, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					responseText += part.Text
				}
			}
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	responseText = cleanJSONResponse(responseText)

	var raw []geminiWord
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w (response: %s)", err, truncateString(responseText, 200))
	}

	words := make([]subtitle.Word, 0, len(raw))
	for _, w := range raw {
		words = append(words, subtitle.Word{
			Text:    strings.TrimSpace(w.Word),
			StartMs: int64(w.Start * 1000),
			EndMs:   int64(w.End * 1000),
		})
	}
	return words, nil
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	// remove ```json and ``` markers
	jsonBlockRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
