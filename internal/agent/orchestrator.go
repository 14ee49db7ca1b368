package agent

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/contentagent/config"
	"github.com/mohammad-safakhou/contentagent/internal/fetch"
	"github.com/mohammad-safakhou/contentagent/internal/llm"
	"github.com/mohammad-safakhou/contentagent/internal/source"
	"github.com/mohammad-safakhou/contentagent/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

type stage string

const (
	stageValidating   stage = "validating"
	stageFetching     stage = "fetching"
	stageExtracting   stage = "extracting"
	stageAggregating  stage = "aggregating"
	stageSynthesizing stage = "synthesizing"
)

// Orchestrator drives one request through the whole pipeline: validate,
// fetch, extract, aggregate, synthesize. It holds no per-request state, so a
// single instance serves all requests.
type Orchestrator struct {
	cfg       *config.Config
	fetcher   *Fetcher
	extractor *Extractor
	aggregate *Aggregator
	synth     *Synthesizer
	telemetry *telemetry.Telemetry
	logger    *log.Logger
	now       func() time.Time
}

// NewOrchestrator wires the pipeline from configuration.
func NewOrchestrator(cfg *config.Config, tel *telemetry.Telemetry) (*Orchestrator, error) {
	llmProvider, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, err
	}

	articles, err := fetch.New(cfg.Fetch)
	if err != nil {
		return nil, err
	}

	providers := source.NewProviders(cfg.Sources)

	return &Orchestrator{
		cfg:       cfg,
		fetcher:   NewFetcher(providers, articles, tel),
		extractor: NewExtractor(cfg.Agent, llmProvider, cfg.LLM.Routing),
		aggregate: NewAggregator(cfg.Agent, tel),
		synth:     NewSynthesizer(cfg.Agent, llmProvider, cfg.LLM.Routing),
		telemetry: tel,
		logger:    log.New(log.Writer(), "[ORCH] ", log.LstdFlags),
		now:       time.Now,
	}, nil
}

// Run executes the pipeline for one topic. The returned error is always one
// of the request-level failures: *InvalidRequestError, *RetrievalError or
// *EmptyResultError.
func (o *Orchestrator) Run(ctx context.Context, topic string, opts Options) (*Response, error) {
	runID := uuid.NewString()
	start := o.now()

	resp, sources, err := o.run(ctx, runID, topic, opts)

	if o.telemetry != nil {
		event := telemetry.RunEvent{
			ID:        runID,
			Topic:     strings.TrimSpace(topic),
			StartTime: start,
			EndTime:   o.now(),
			Success:   err == nil,
			Sources:   sources,
		}
		if err != nil {
			event.Error = err.Error()
		}
		if resp != nil {
			event.Insights = len(resp.Insights)
		}
		o.telemetry.RecordRun(event)
	}
	return resp, err
}

func (o *Orchestrator) run(ctx context.Context, runID, topic string, opts Options) (*Response, int, error) {
	// Validating
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, 0, &InvalidRequestError{Reason: "topic must not be blank"}
	}
	tone := ParseTone(opts.Tone)
	formats := ParseFormats(opts.ContentFormats)
	o.logger.Printf("[%s] run start topic=%q tone=%s formats=%d", runID, topic, tone, len(formats))

	// Fetching
	items, err := timed(o, stageFetching, func() ([]SourceItem, error) {
		fctx, cancel := context.WithTimeout(ctx, o.cfg.General.DefaultTimeout)
		defer cancel()
		return o.fetcher.FetchSources(fctx, topic, opts.Audience, o.cfg.Agent.FetchLimit)
	})
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			return nil, 0, &EmptyResultError{Stage: string(stageFetching), Err: err}
		}
		return nil, 0, &RetrievalError{Err: err}
	}
	o.logger.Printf("[%s] fetched %d sources", runID, len(items))

	// Extracting: fan out per item, join in fetch order. An item's failure
	// is recorded and never cancels its siblings.
	entries, _ := timed(o, stageExtracting, func() ([]Extracted, error) {
		return o.extractAll(ctx, items), nil
	})

	// Aggregating
	insights, err := timed(o, stageAggregating, func() ([]Insight, error) {
		return o.aggregate.Aggregate(topic, entries)
	})
	if err != nil {
		return nil, len(items), &EmptyResultError{Stage: string(stageAggregating), Err: err}
	}
	o.logger.Printf("[%s] aggregated %d insights", runID, len(insights))

	// Synthesizing: format shortfalls degrade to empty lists inside
	ideas, _ := timed(o, stageSynthesizing, func() (ContentIdeas, error) {
		return o.synth.Synthesize(ctx, topic, insights, tone, opts.Audience, formats), nil
	})

	return &Response{
		RetrievedAt:  o.now().UTC(),
		Insights:     insights,
		ContentIdeas: ideas,
	}, len(items), nil
}

func (o *Orchestrator) extractAll(ctx context.Context, items []SourceItem) []Extracted {
	entries := make([]Extracted, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Agent.MaxConcurrentExtracts)
	for i, item := range items {
		g.Go(func() error {
			ectx, cancel := context.WithTimeout(gctx, o.cfg.Agent.ExtractTimeout)
			defer cancel()
			insight, err := o.extractor.Extract(ectx, item)
			entries[i] = Extracted{Index: i, Item: item, Insight: insight, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return entries
}

func timed[T any](o *Orchestrator, s stage, fn func() (T, error)) (T, error) {
	start := o.now()
	out, err := fn()
	if o.telemetry != nil {
		o.telemetry.ObserveStage(string(s), o.now().Sub(start))
	}
	return out, err
}
