package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/contentagent/config"
)

func sampleInsights() []Insight {
	return []Insight{
		{
			Title:     "Automation Cuts Setup Time",
			URL:       "https://example.com/a",
			Summary:   "Teams report forty percent faster campaign setup.",
			KeyPoints: []string{"Campaign setup time dropped forty percent.", "Email workflows were the entry point."},
			Keywords:  []string{"automation", "campaigns", "workflows"},
		},
		{
			Title:     "Analytics Gets Bundled",
			URL:       "https://example.com/b",
			Summary:   "Vendors now ship conversion dashboards by default.",
			KeyPoints: []string{"Dashboards track conversion across channels."},
			Keywords:  []string{"analytics", "dashboards"},
		},
	}
}

func TestSynthesizeOnlyRequestedFormats(t *testing.T) {
	s := NewSynthesizer(testAgentConfig(), nil, config.LLMRoutingConfig{})
	formats := ParseFormats([]string{"blog_outline", "social_thread"})

	ideas := s.Synthesize(context.Background(), "AI marketing automation", sampleInsights(), ToneInsightful, "", formats)

	if len(ideas.Headlines) != 0 {
		t.Fatalf("headlines not requested but produced: %v", ideas.Headlines)
	}
	if len(ideas.VideoScript) != 0 {
		t.Fatalf("video script not requested but produced: %v", ideas.VideoScript)
	}
	if len(ideas.BlogOutline) == 0 {
		t.Fatalf("expected blog outline content")
	}
	if len(ideas.SocialPosts) == 0 {
		t.Fatalf("expected social posts")
	}
}

func TestSynthesizeAllListsInitialized(t *testing.T) {
	s := NewSynthesizer(testAgentConfig(), nil, config.LLMRoutingConfig{})
	ideas := s.Synthesize(context.Background(), "anything", nil, ToneInsightful, "", ParseFormats(nil))

	for name, list := range map[string][]string{
		"headlines":   ideas.Headlines,
		"blogOutline": ideas.BlogOutline,
		"socialPosts": ideas.SocialPosts,
		"videoScript": ideas.VideoScript,
	} {
		if list == nil {
			t.Fatalf("%s must be an empty list, not nil", name)
		}
	}
}

func TestSynthesizeOutlineShape(t *testing.T) {
	s := NewSynthesizer(testAgentConfig(), nil, config.LLMRoutingConfig{})
	ideas := s.Synthesize(context.Background(), "AI marketing automation", sampleInsights(), ToneInsightful, "startup founders", ParseFormats([]string{"blog_outline"}))

	outline := ideas.BlogOutline
	if len(outline) != len(sampleInsights())+2 {
		t.Fatalf("expected intro + sections + conclusion, got %v", outline)
	}
	if !strings.HasPrefix(outline[0], "Introduction:") {
		t.Fatalf("expected introduction first, got %q", outline[0])
	}
	if !strings.Contains(outline[0], "startup founders") {
		t.Fatalf("expected audience in intro, got %q", outline[0])
	}
	if !strings.HasPrefix(outline[len(outline)-1], "Conclusion:") {
		t.Fatalf("expected conclusion last, got %q", outline[len(outline)-1])
	}
}

func TestSynthesizeToneBiasesWordingNotFacts(t *testing.T) {
	s := NewSynthesizer(testAgentConfig(), nil, config.LLMRoutingConfig{})
	formats := ParseFormats([]string{"social_thread"})

	calm := s.Synthesize(context.Background(), "automation", sampleInsights(), ToneInsightful, "", formats)
	urgent := s.Synthesize(context.Background(), "automation", sampleInsights(), ToneUrgent, "", formats)

	if len(calm.SocialPosts) != len(urgent.SocialPosts) {
		t.Fatalf("tone changed the number of posts: %d vs %d", len(calm.SocialPosts), len(urgent.SocialPosts))
	}
	// both tones must carry the same key point
	if !strings.Contains(calm.SocialPosts[0], "forty percent") || !strings.Contains(urgent.SocialPosts[0], "forty percent") {
		t.Fatalf("tone altered factual content: %q vs %q", calm.SocialPosts[0], urgent.SocialPosts[0])
	}
	if calm.SocialPosts[0] == urgent.SocialPosts[0] {
		t.Fatalf("expected tone to change wording")
	}
}
