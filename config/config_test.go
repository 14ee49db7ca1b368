package config

import (
	"math"
	"testing"
	"time"
)

func TestAgentConfigNormalizeDefaults(t *testing.T) {
	a := AgentConfig{}.Normalize()
	if a.FetchLimit != 8 || a.MaxInsights != 8 {
		t.Fatalf("unexpected defaults: %+v", a)
	}
	if a.MinWordCount != 40 || a.MaxConcurrentExtracts != 4 {
		t.Fatalf("unexpected defaults: %+v", a)
	}
	if a.ExtractTimeout != 20*time.Second {
		t.Fatalf("unexpected extract timeout: %v", a.ExtractTimeout)
	}
}

func TestAgentConfigNormalizeClampsFetchLimit(t *testing.T) {
	a := AgentConfig{FetchLimit: 50}.Normalize()
	if a.FetchLimit != 12 {
		t.Fatalf("expected fetch limit clamped to 12, got %d", a.FetchLimit)
	}
}

func TestRankingConfigNormalizeRescalesWeights(t *testing.T) {
	r := RankingConfig{RecencyWeight: 3, RelevanceWeight: 1}.Normalize()
	if sum := r.RecencyWeight + r.RelevanceWeight; math.Abs(sum-1) > 1e-9 {
		t.Fatalf("weights should sum to 1, got %f", sum)
	}
	if r.RecencyWeight != 0.75 {
		t.Fatalf("unexpected rescaled recency weight: %f", r.RecencyWeight)
	}
	if r.RecencyHalfLife != 48*time.Hour {
		t.Fatalf("unexpected half life default: %v", r.RecencyHalfLife)
	}
}

func TestFetchConfigValidate(t *testing.T) {
	f := FetchConfig{Renderer: "HTTP "}.Normalize()
	if f.Renderer != "http" {
		t.Fatalf("expected renderer normalized, got %q", f.Renderer)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := FetchConfig{Renderer: "phantomjs"}.Normalize()
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
}

func TestSourcesConfigValidateNeedsAProvider(t *testing.T) {
	if err := (SourcesConfig{}).Validate(); err == nil {
		t.Fatalf("expected error with no providers configured")
	}
	ok := SourcesConfig{WebSearch: WebSearchConfig{SerperAPIKey: "k"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
