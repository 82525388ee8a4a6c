package polish

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

// AnthropicPolisher implements Polisher using Claude.
type AnthropicPolisher struct {
	client  anthropic.Client
	model   anthropic.Model
	options Options
}

func NewAnthropicPolisher(apiKey string, opts Options) (*AnthropicPolisher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicPolisher{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		options: opts,
	}, nil
}

func (p *AnthropicPolisher) batchSize() int {
	if p.options.BatchSize > 0 {
		return p.options.BatchSize
	}
	return DefaultBatchSize
}

func (p *AnthropicPolisher) Polish(ctx context.Context, cues []subtitle.Cue) ([]subtitle.Cue, error) {
	if len(cues) == 0 {
		return []subtitle.Cue{}, nil
	}

	out := make([]subtitle.Cue, len(cues))
	copy(out, cues)

	batchSize := p.batchSize()
	for i := 0; i < len(cues); i += batchSize {
		end := i + batchSize
		if end > len(cues) {
			end = len(cues)
		}
		if err := p.polishBatch(ctx, out, i, end); err != nil {
			return nil, fmt.Errorf("batch %d failed: %w", i/batchSize, err)
		}
	}
	return out, nil
}

// indexed rewrite returned by the model
type polishResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func (p *AnthropicPolisher) polishBatch(ctx context.Context, cues []subtitle.Cue, from, to int) error {
	prompt := buildPrompt(p.options.Locale, cues[from:to])

	message, err := p.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     p.model,
			MaxTokens: 4096,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(prompt),
				),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("polish request failed: %w", err)
	}

	results, err := parseResponse(message)
	if err != nil {
		return err
	}

	// apply only in-range rewrites; anything the model skipped or mangled
	// keeps the original text
	for _, r := range results {
		idx := from + r.Index
		if r.Index < 0 || idx >= to {
			continue
		}
		text := subtitle.NormalizeText(r.Text)
		if text == "" {
			continue
		}
		cues[idx].Text = text
		cues[idx].Source = subtitle.SourceAgent
	}
	return nil
}

func buildPrompt(locale string, cues []subtitle.Cue) string {
	var sb strings.Builder
	sb.WriteString("You are cleaning up auto-generated subtitles from a screen recording. ")
	sb.WriteString("Fix recognition mistakes, casing, and punctuation. Do not translate, ")
	sb.WriteString("do not merge or split entries, and keep each line short.\n")
	if locale != "" {
		sb.WriteString(fmt.Sprintf("The speech locale is %s.\n", locale))
	}
	sb.WriteString("Input entries:\n")
	for i, c := range cues {
		sb.WriteString(fmt.Sprintf("%d: %s\n", i, strings.ReplaceAll(c.Text, "\n", " ")))
	}
	sb.WriteString("\nRespond with ONLY a JSON array of objects with 'index' and 'text' fields, ")
	sb.WriteString("one per input entry, no other text or markdown formatting.")
	return sb.String()
}

func parseResponse(message *anthropic.Message) ([]polishResult, error) {
	if message == nil || len(message.Content) == 0 {
		return nil, fmt.Errorf("empty response from Anthropic")
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text in Anthropic response")
	}

	responseText = cleanJSONResponse(responseText)

	var results []polishResult
	if err := json.Unmarshal([]byte(responseText), &results); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
	return results, nil
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	jsonBlockRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
