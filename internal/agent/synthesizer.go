package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/contentagent/config"
	"github.com/mohammad-safakhou/contentagent/internal/helpers"
	"github.com/mohammad-safakhou/contentagent/internal/llm"
)

// Synthesizer turns the aggregated insights into the requested content
// assets. It never fails the request: a format that cannot be produced comes
// back as an empty list.
type Synthesizer struct {
	cfg     config.AgentConfig
	llm     llm.Provider
	routing config.LLMRoutingConfig
	logger  *log.Logger
}

func NewSynthesizer(cfg config.AgentConfig, provider llm.Provider, routing config.LLMRoutingConfig) *Synthesizer {
	return &Synthesizer{
		cfg:     cfg,
		llm:     provider,
		routing: routing,
		logger:  log.New(log.Writer(), "[SYNTHESIZER] ", log.LstdFlags),
	}
}

// Synthesize produces every requested format independently. Tone and
// audience bias wording only; the facts all come from the insights.
func (s *Synthesizer) Synthesize(ctx context.Context, topic string, insights []Insight, tone Tone, audience string, formats map[Format]bool) ContentIdeas {
	ideas := emptyContentIdeas()
	if len(insights) == 0 {
		return ideas
	}

	for _, f := range AllFormats {
		if !formats[f] {
			continue
		}
		list := s.synthesizeFormat(ctx, f, topic, insights, tone, audience)
		switch f {
		case FormatHeadlines:
			ideas.Headlines = list
		case FormatBlogOutline:
			ideas.BlogOutline = list
		case FormatSocialThread:
			ideas.SocialPosts = list
		case FormatVideoScript:
			ideas.VideoScript = list
		}
	}
	return ideas
}

func (s *Synthesizer) synthesizeFormat(ctx context.Context, f Format, topic string, insights []Insight, tone Tone, audience string) []string {
	if s.llm != nil {
		if list, err := s.generate(ctx, f, topic, insights, tone, audience); err == nil && len(list) > 0 {
			return list
		} else if err != nil {
			s.logger.Printf("llm synthesis for %s fell back to templates: %v", f, err)
		}
	}

	var list []string
	switch f {
	case FormatHeadlines:
		list = buildHeadlines(insights, tone, audience)
	case FormatBlogOutline:
		list = buildBlogOutline(topic, insights, audience)
	case FormatSocialThread:
		list = buildSocialPosts(insights, tone)
	case FormatVideoScript:
		list = buildVideoScript(topic, insights, tone)
	}
	if list == nil {
		list = []string{}
	}
	return list
}

var toneOpeners = map[Tone]string{
	ToneInsightful: "What the data says:",
	TonePlayful:    "Plot twist:",
	ToneUrgent:     "Act now:",
	ToneVisionary:  "The next wave:",
	TonePractical:  "How to use it:",
}

func buildHeadlines(insights []Insight, tone Tone, audience string) []string {
	n := 5
	if len(insights) < n {
		n = len(insights)
	}
	suffix := ""
	if a := strings.TrimSpace(audience); a != "" {
		suffix = " for " + a
	}
	var out []string
	for _, ins := range insights[:n] {
		title := strings.TrimSpace(ins.Title)
		if title == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%s %s%s", toneOpeners[tone], title, suffix))
	}
	return out
}

func buildBlogOutline(topic string, insights []Insight, audience string) []string {
	intro := fmt.Sprintf("Introduction: why %s matters right now", topic)
	if a := strings.TrimSpace(audience); a != "" {
		intro = fmt.Sprintf("Introduction: why %s matters for %s", topic, a)
	}
	out := []string{intro}
	for _, ins := range insights {
		header := strings.TrimSpace(ins.Title)
		if header == "" && len(ins.KeyPoints) > 0 {
			header = ins.KeyPoints[0]
		}
		if header == "" {
			continue
		}
		out = append(out, truncate(header, 120))
	}
	out = append(out, fmt.Sprintf("Conclusion: where %s goes from here", topic))
	return out
}

func buildSocialPosts(insights []Insight, tone Tone) []string {
	var out []string
	for _, ins := range insights {
		if len(out) == 5 {
			break
		}
		if len(ins.KeyPoints) == 0 {
			continue
		}
		post := fmt.Sprintf("%s %s", toneOpeners[tone], truncate(ins.KeyPoints[0], 200))
		if len(ins.Keywords) > 0 {
			post += " #" + strings.ReplaceAll(ins.Keywords[0], " ", "")
		}
		out = append(out, post)
	}
	return out
}

func buildVideoScript(topic string, insights []Insight, tone Tone) []string {
	out := []string{fmt.Sprintf("Open: %s Here is what is actually happening with %s.", toneOpeners[tone], topic)}
	beats := 4
	if len(insights) < beats {
		beats = len(insights)
	}
	for i, ins := range insights[:beats] {
		beat := ins.Summary
		if len(ins.KeyPoints) > 0 {
			beat = ins.KeyPoints[0]
		}
		out = append(out, fmt.Sprintf("Beat %d: %s", i+1, truncate(beat, 200)))
	}
	out = append(out, fmt.Sprintf("Close: the takeaway on %s, and what to watch next.", topic))
	return out
}

var formatInstructions = map[Format]string{
	FormatHeadlines:    "3-5 punchy article headlines paraphrasing the strongest insights",
	FormatBlogOutline:  "blog outline section headers: an introduction, one section per insight, a conclusion",
	FormatSocialThread: "up to 5 hook-style social posts, each referencing a specific key point or keyword",
	FormatVideoScript:  "a short video script arc: an opening line, 2-4 beats tied to insights, a closing line",
}

// generate asks the LLM for one format's list. The caller falls back to the
// template builders when this fails or returns nothing.
func (s *Synthesizer) generate(ctx context.Context, f Format, topic string, insights []Insight, tone Tone, audience string) ([]string, error) {
	model := llm.ModelFor(s.routing, "synthesis")
	if model == "" {
		return nil, fmt.Errorf("no synthesis model configured")
	}

	var b strings.Builder
	for i, ins := range insights {
		fmt.Fprintf(&b, "%d. %s\n   Summary: %s\n   Key points: %s\n   Keywords: %s\n",
			i+1, ins.Title, ins.Summary, strings.Join(ins.KeyPoints, " | "), strings.Join(ins.Keywords, ", "))
	}
	audienceLine := ""
	if a := strings.TrimSpace(audience); a != "" {
		audienceLine = "AUDIENCE: " + a + "\n"
	}
	prompt := fmt.Sprintf(`You are a content strategist. Topic: %q. Tone: %s.
%sUsing ONLY the facts in the insights below, produce %s.
Return ONLY a strict JSON array of strings.
INSIGHTS:
%s`, topic, tone, audienceLine, formatInstructions[f], b.String())

	out, err := s.llm.Generate(ctx, prompt, model, map[string]interface{}{"temperature": 0.4, "max_tokens": 700})
	if err != nil {
		return nil, err
	}
	raw, err := helpers.ExtractJSON(out)
	if err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	var cleaned []string
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned, nil
}
