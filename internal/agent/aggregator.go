package agent

import (
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/mohammad-safakhou/contentagent/config"
	"github.com/mohammad-safakhou/contentagent/internal/telemetry"
)

// Extracted pairs one fetched item with its extraction outcome, keeping the
// original fetch position for stable ordering.
type Extracted struct {
	Index   int
	Item    SourceItem
	Insight Insight
	Err     error
}

// Aggregator deduplicates extracted insights, ranks them and caps the final
// set. Ranking is deterministic for a fixed input and clock.
type Aggregator struct {
	cfg       config.AgentConfig
	telemetry *telemetry.Telemetry
	logger    *log.Logger
	now       func() time.Time
}

func NewAggregator(cfg config.AgentConfig, tel *telemetry.Telemetry) *Aggregator {
	// a zero half-life or zero cap would poison scoring, so the config is
	// normalized again even if the caller already did
	cfg = cfg.Normalize()
	return &Aggregator{
		cfg:       cfg,
		telemetry: tel,
		logger:    log.New(log.Writer(), "[AGGREGATOR] ", log.LstdFlags),
		now:       time.Now,
	}
}

// Aggregate applies the selection policy: drop failures, dedupe by URL and
// normalized title keeping the earlier entry, rank, cap. Returns ErrNoInsights
// when nothing survives.
func (a *Aggregator) Aggregate(topic string, entries []Extracted) ([]Insight, error) {
	var candidates []Extracted
	seenURL := make(map[string]bool)
	seenTitle := make(map[string]bool)

	ordered := make([]Extracted, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	for _, e := range ordered {
		if e.Err != nil {
			a.drop("extraction_failed")
			continue
		}
		if e.Insight.URL == "" || seenURL[e.Insight.URL] {
			a.drop("duplicate_url")
			continue
		}
		if nt := normalizeTitle(e.Insight.Title); nt != "" {
			if seenTitle[nt] {
				a.drop("duplicate_title")
				continue
			}
			seenTitle[nt] = true
		}
		seenURL[e.Insight.URL] = true
		candidates = append(candidates, e)
	}

	if len(candidates) == 0 {
		return nil, ErrNoInsights
	}

	relevance := a.relevanceScores(topic, candidates)
	now := a.now()

	type ranked struct {
		entry Extracted
		dated bool
		score float64
	}
	rankedSet := make([]ranked, 0, len(candidates))
	for i, c := range candidates {
		r := ranked{entry: c}
		rel := relevance[i]
		if c.Insight.PublishedAt != nil {
			r.dated = true
			r.score = a.cfg.Ranking.RecencyWeight*recencyScore(now, *c.Insight.PublishedAt, a.cfg.Ranking.RecencyHalfLife) +
				a.cfg.Ranking.RelevanceWeight*rel
		} else {
			// undated items always sort below dated ones; relevance only
			// orders them among themselves
			r.score = rel
		}
		rankedSet = append(rankedSet, r)
	}

	sort.SliceStable(rankedSet, func(i, j int) bool {
		if rankedSet[i].dated != rankedSet[j].dated {
			return rankedSet[i].dated
		}
		if rankedSet[i].score != rankedSet[j].score {
			return rankedSet[i].score > rankedSet[j].score
		}
		return rankedSet[i].entry.Index < rankedSet[j].entry.Index
	})

	max := a.cfg.MaxInsights
	if len(rankedSet) > max {
		for range rankedSet[max:] {
			a.drop("over_cap")
		}
		rankedSet = rankedSet[:max]
	}

	out := make([]Insight, 0, len(rankedSet))
	for _, r := range rankedSet {
		out = append(out, r.entry.Insight)
	}
	return out, nil
}

// recencyScore decays exponentially with age, halving every halfLife.
func recencyScore(now, published time.Time, halfLife time.Duration) float64 {
	age := now.Sub(published)
	if age < 0 {
		age = 0
	}
	return math.Exp2(-age.Hours() / halfLife.Hours())
}

// relevanceScores ranks candidates against the topic with an in-memory
// full-text index, normalized to 0..1. Falls back to raw keyword overlap if
// indexing fails.
func (a *Aggregator) relevanceScores(topic string, candidates []Extracted) []float64 {
	scores := make([]float64, len(candidates))

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		a.logger.Printf("relevance index unavailable, using overlap: %v", err)
		return a.overlapScores(topic, candidates, scores)
	}
	defer idx.Close()

	for i, c := range candidates {
		doc := map[string]string{
			"title":    c.Insight.Title,
			"summary":  c.Insight.Summary,
			"keywords": strings.Join(c.Insight.Keywords, " "),
		}
		if err := idx.Index(strconv.Itoa(i), doc); err != nil {
			a.logger.Printf("relevance index failed, using overlap: %v", err)
			return a.overlapScores(topic, candidates, scores)
		}
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(topic), len(candidates), 0, false)
	res, err := idx.Search(req)
	if err != nil {
		a.logger.Printf("relevance search failed, using overlap: %v", err)
		return a.overlapScores(topic, candidates, scores)
	}

	maxScore := 0.0
	for _, hit := range res.Hits {
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}
	if maxScore == 0 {
		return scores
	}
	for _, hit := range res.Hits {
		if i, err := strconv.Atoi(hit.ID); err == nil && i < len(scores) {
			scores[i] = hit.Score / maxScore
		}
	}
	return scores
}

func (a *Aggregator) overlapScores(topic string, candidates []Extracted, scores []float64) []float64 {
	for i, c := range candidates {
		text := c.Insight.Title + " " + c.Insight.Summary + " " + strings.Join(c.Insight.Keywords, " ")
		scores[i] = overlapDensity(topic, text)
	}
	return scores
}

func (a *Aggregator) drop(reason string) {
	if a.telemetry != nil {
		a.telemetry.RecordDrop(reason)
	}
}
