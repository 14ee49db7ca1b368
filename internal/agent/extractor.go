package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/mohammad-safakhou/contentagent/config"
	"github.com/mohammad-safakhou/contentagent/internal/helpers"
	"github.com/mohammad-safakhou/contentagent/internal/llm"
)

const (
	minKeyPoints = 2
	maxKeyPoints = 5
	minKeywords  = 3
	maxKeywords  = 6
)

// Extractor distills one source item into an Insight. The heuristic path is
// fully deterministic; when an LLM provider is configured it refines the
// summary and key points at low temperature, falling back to the heuristics
// on any failure.
type Extractor struct {
	cfg     config.AgentConfig
	llm     llm.Provider
	routing config.LLMRoutingConfig
	logger  *log.Logger
}

func NewExtractor(cfg config.AgentConfig, provider llm.Provider, routing config.LLMRoutingConfig) *Extractor {
	return &Extractor{
		cfg:     cfg,
		llm:     provider,
		routing: routing,
		logger:  log.New(log.Writer(), "[EXTRACTOR] ", log.LstdFlags),
	}
}

// Extract builds the insight for one item. Returns *ExtractionError when the
// body is too short or degenerate to summarize.
func (e *Extractor) Extract(ctx context.Context, item SourceItem) (Insight, error) {
	text := strings.TrimSpace(item.RawText)
	if wordCount(text) < e.cfg.MinWordCount {
		return Insight{}, &ExtractionError{URL: item.URL, Reason: fmt.Sprintf("body under %d words", e.cfg.MinWordCount)}
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return Insight{}, &ExtractionError{URL: item.URL, Reason: "no extractable sentences"}
	}

	keyPoints := e.buildKeyPoints(sentences)
	if len(keyPoints) < minKeyPoints {
		return Insight{}, &ExtractionError{URL: item.URL, Reason: "too few extractable claims"}
	}

	keywords := buildKeywords(item.Title, text)
	if len(keywords) < minKeywords {
		return Insight{}, &ExtractionError{URL: item.URL, Reason: "too few distinct terms"}
	}

	insight := Insight{
		Title:       item.Title,
		URL:         item.URL,
		Source:      item.Source,
		Author:      item.Author,
		PublishedAt: item.PublishedAt,
		Summary:     e.buildSummary(sentences),
		KeyPoints:   keyPoints,
		Keywords:    keywords,
	}
	if insight.Title == "" {
		insight.Title = truncate(sentences[0], 100)
	}

	if e.llm != nil {
		if refined, err := e.refine(ctx, item, insight); err == nil {
			insight = refined
		} else {
			e.logger.Printf("llm refinement skipped for %s: %v", item.URL, err)
		}
	}

	return insight, nil
}

// buildSummary takes the leading sentences up to the configured budget.
func (e *Extractor) buildSummary(sentences []string) string {
	n := e.cfg.SummarySentences
	if n > len(sentences) {
		n = len(sentences)
	}
	return truncate(strings.Join(sentences[:n], " "), e.cfg.SummaryMaxChars)
}

// buildKeyPoints scores sentences by content-term frequency across the whole
// body and keeps the strongest ones, best first. Every key point is a
// sentence from the source text, never a generated claim.
func (e *Extractor) buildKeyPoints(sentences []string) []string {
	freq := make(map[string]int)
	for _, s := range sentences {
		for _, t := range contentTokens(s) {
			freq[t]++
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(sentences))
	for i, s := range sentences {
		tokens := contentTokens(s)
		if len(tokens) == 0 {
			continue
		}
		sum := 0
		for _, t := range tokens {
			sum += freq[t]
		}
		// normalized by length so long sentences do not dominate
		ranked = append(ranked, scored{idx: i, score: float64(sum) / float64(len(tokens))})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].idx < ranked[j].idx
	})

	n := maxKeyPoints
	if len(ranked) < n {
		n = len(ranked)
	}
	if n < minKeyPoints {
		n = len(ranked)
	}
	points := make([]string, 0, n)
	for _, r := range ranked[:n] {
		points = append(points, truncate(sentences[r.idx], 180))
	}
	return points
}

func buildKeywords(title, text string) []string {
	// title terms weigh double; they are usually the best topical signal
	tokens := append(contentTokens(text), contentTokens(title)...)
	tokens = append(tokens, contentTokens(title)...)
	return topTerms(tokens, maxKeywords)
}

type refinedInsight struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Keywords  []string `json:"keywords"`
}

// refine asks the LLM for a tighter summary grounded in the source text. The
// heuristic insight is the fallback whenever the response is unusable.
func (e *Extractor) refine(ctx context.Context, item SourceItem, heuristic Insight) (Insight, error) {
	model := llm.ModelFor(e.routing, "extraction")
	if model == "" {
		return Insight{}, fmt.Errorf("no extraction model configured")
	}

	body := truncate(item.RawText, 6000)
	prompt := fmt.Sprintf(`Summarize the following article. Use only facts stated in the text.
Return ONLY strict JSON:
{"summary": string (max %d chars), "key_points": [2-5 short declarative strings], "keywords": [3-6 lowercase single words]}
TITLE: %s
TEXT:
%s`, e.cfg.SummaryMaxChars, item.Title, body)

	out, err := e.llm.Generate(ctx, prompt, model, map[string]interface{}{"temperature": 0.1, "max_tokens": 600})
	if err != nil {
		return Insight{}, err
	}
	raw, err := helpers.ExtractJSON(out)
	if err != nil {
		return Insight{}, err
	}
	var parsed refinedInsight
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Insight{}, err
	}
	if strings.TrimSpace(parsed.Summary) == "" || len(parsed.KeyPoints) < minKeyPoints {
		return Insight{}, fmt.Errorf("refinement response incomplete")
	}

	refined := heuristic
	refined.Summary = truncate(strings.TrimSpace(parsed.Summary), e.cfg.SummaryMaxChars)
	if len(parsed.KeyPoints) > maxKeyPoints {
		parsed.KeyPoints = parsed.KeyPoints[:maxKeyPoints]
	}
	refined.KeyPoints = parsed.KeyPoints
	if kws := normalizeKeywords(parsed.Keywords); len(kws) >= minKeywords {
		refined.Keywords = kws
	}
	return refined, nil
}

func normalizeKeywords(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range in {
		k = normalizeID(k)
		if k == "" || seen[k] || stopwords[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}
