package timeline

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrapTextKeepsShortTextOnOneLine(t *testing.T) {
	got := WrapText("hello world", 42, 2)
	if got != "hello world" {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestWrapTextBreaksOnWordBoundaries(t *testing.T) {
	got := WrapText("the quick brown fox jumps", 11, 3)
	for i, line := range strings.Split(got, "\n") {
		if utf8.RuneCountInString(line) > 11 {
			t.Errorf("line %d exceeds budget: %q", i, line)
		}
		if strings.HasPrefix(line, " ") || strings.HasSuffix(line, " ") {
			t.Errorf("line %d has stray spaces: %q", i, line)
		}
	}
}

func TestWrapTextTruncatesWithSingleEllipsis(t *testing.T) {
	got := WrapText("one two three four five six seven eight", 9, 2)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Errorf("expected ellipsis on truncated last line, got %q", lines[1])
	}
	if strings.Count(got, "…") != 1 {
		t.Errorf("expected exactly one ellipsis, got %q", got)
	}
	for _, line := range lines {
		if utf8.RuneCountInString(line) > 9 {
			t.Errorf("line exceeds budget: %q", line)
		}
	}
}

func TestWrapTextHandlesCJKWithoutSpaces(t *testing.T) {
	got := WrapText("这是一个没有空格的中文字幕例子", 6, 2)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	for _, line := range lines {
		if utf8.RuneCountInString(line) > 6 {
			t.Errorf("CJK line exceeds rune budget: %q", line)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Errorf("expected truncation marker, got %q", lines[1])
	}
}

func TestWrapTextEmptyInput(t *testing.T) {
	if got := WrapText("   ", 10, 2); got != "" {
		t.Errorf("expected empty output for blank input, got %q", got)
	}
}

func TestTruncateWithEllipsisCountsRunes(t *testing.T) {
	got := TruncateWithEllipsis("字幕内容超出预算", 4)
	if utf8.RuneCountInString(got) > 4 {
		t.Errorf("truncated text exceeds budget: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if got := TruncateWithEllipsis("short", 10); got != "short" {
		t.Errorf("expected untouched text, got %q", got)
	}
}
