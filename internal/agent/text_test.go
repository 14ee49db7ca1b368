package agent

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeTitle(t *testing.T) {
	a := normalizeTitle("AI Marketing: The Next Wave!")
	b := normalizeTitle("  ai marketing -- the next wave ")
	if a != b {
		t.Fatalf("expected equal normalized titles, got %q vs %q", a, b)
	}
	if a != "ai marketing the next wave" {
		t.Fatalf("unexpected normalization: %q", a)
	}
}

func TestTopTermsDeterministic(t *testing.T) {
	tokens := []string{"automation", "marketing", "marketing", "pipeline", "automation", "automation"}
	first := topTerms(tokens, 3)
	second := topTerms(tokens, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected deterministic terms, got %v vs %v", first, second)
	}
	if first[0] != "automation" || first[1] != "marketing" {
		t.Fatalf("unexpected frequency order: %v", first)
	}
}

func TestSplitSentencesSkipsFragments(t *testing.T) {
	got := splitSentences("Yes. The market for automation tooling keeps growing steadily. No way! Analysts expect budgets to double over the coming year.")
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(got), got)
	}
}

func TestOverlapDensity(t *testing.T) {
	full := overlapDensity("marketing automation", "marketing automation platforms are converging")
	if full != 1 {
		t.Fatalf("expected full overlap, got %f", full)
	}
	none := overlapDensity("marketing automation", "quarterly earnings call transcript")
	if none != 0 {
		t.Fatalf("expected zero overlap, got %f", none)
	}
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("日本語の最新記事本文。", 40)
	for _, max := range []int{100, 120, 180, 200, 420} {
		got := truncate(long, max)
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%d) produced invalid UTF-8: %q", max, got)
		}
	}
	short := "Short ascii text."
	if got := truncate(short, 100); got != short {
		t.Fatalf("short input must pass through unchanged, got %q", got)
	}
}

func TestCutRunesRespectsByteBound(t *testing.T) {
	long := strings.Repeat("日本語の最新記事本文。", 40)
	for _, max := range []int{1, 2, 100, 200} {
		got := cutRunes(long, max)
		if len(got) > max {
			t.Fatalf("cutRunes(%d) returned %d bytes", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("cutRunes(%d) produced invalid UTF-8: %q", max, got)
		}
		if !strings.HasPrefix(long, got) {
			t.Fatalf("cutRunes(%d) is not a prefix of the input", max)
		}
	}
}

func TestParseToneDefaults(t *testing.T) {
	if got := ParseTone(""); got != ToneInsightful {
		t.Fatalf("expected default tone, got %s", got)
	}
	if got := ParseTone("  Playful "); got != TonePlayful {
		t.Fatalf("expected playful, got %s", got)
	}
	if got := ParseTone("sarcastic"); got != ToneInsightful {
		t.Fatalf("expected fallback to default, got %s", got)
	}
}

func TestParseFormats(t *testing.T) {
	all := ParseFormats(nil)
	if len(all) != len(AllFormats) {
		t.Fatalf("expected all formats for nil input, got %v", all)
	}

	some := ParseFormats([]string{"blog_outline", "newsletter", "SOCIAL_THREAD"})
	if !some[FormatBlogOutline] || !some[FormatSocialThread] {
		t.Fatalf("expected known formats kept, got %v", some)
	}
	if len(some) != 2 {
		t.Fatalf("expected unknown format dropped, got %v", some)
	}

	if got := ParseFormats([]string{"newsletter"}); len(got) != 0 {
		t.Fatalf("expected empty set for only-unknown ids, got %v", got)
	}
}
