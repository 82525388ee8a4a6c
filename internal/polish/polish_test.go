package polish

import (
	"strings"
	"testing"

	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

func TestNewAnthropicPolisherRequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicPolisher("", Options{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestBuildPromptListsIndexedEntries(t *testing.T) {
	cues := []subtitle.Cue{
		{ID: 1, Text: "first line\nsecond line"},
		{ID: 2, Text: "another cue"},
	}
	prompt := buildPrompt("en-US", cues)
	if !strings.Contains(prompt, "0: first line second line") {
		t.Errorf("prompt missing flattened first entry:\n%s", prompt)
	}
	if !strings.Contains(prompt, "1: another cue") {
		t.Errorf("prompt missing second entry:\n%s", prompt)
	}
	if !strings.Contains(prompt, "en-US") {
		t.Errorf("prompt missing locale:\n%s", prompt)
	}
}

func TestCleanJSONResponseStripsMarkdown(t *testing.T) {
	got := cleanJSONResponse("```json\n[{\"index\":0,\"text\":\"hi\"}]\n```")
	if got != `[{"index":0,"text":"hi"}]` {
		t.Errorf("unexpected cleaned response: %q", got)
	}
}
