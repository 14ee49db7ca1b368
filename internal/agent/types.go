package agent

import "time"

// Tone biases the register of synthesized copy. It never changes which
// insights are selected.
type Tone string

const (
	ToneInsightful Tone = "insightful"
	TonePlayful    Tone = "playful"
	ToneUrgent     Tone = "urgent"
	ToneVisionary  Tone = "visionary"
	TonePractical  Tone = "practical"
)

// ParseTone maps free text to a known tone, defaulting to insightful.
func ParseTone(s string) Tone {
	switch Tone(normalizeID(s)) {
	case TonePlayful:
		return TonePlayful
	case ToneUrgent:
		return ToneUrgent
	case ToneVisionary:
		return ToneVisionary
	case TonePractical:
		return TonePractical
	default:
		return ToneInsightful
	}
}

// Format identifies one synthesized content asset kind
type Format string

const (
	FormatHeadlines    Format = "headlines"
	FormatBlogOutline  Format = "blog_outline"
	FormatSocialThread Format = "social_thread"
	FormatVideoScript  Format = "video_script"
)

// AllFormats is the default when the caller requests nothing specific.
var AllFormats = []Format{FormatHeadlines, FormatBlogOutline, FormatSocialThread, FormatVideoScript}

// ParseFormats normalizes the requested format ids. Nil means all formats;
// unknown ids are dropped without error, so an explicit list of only unknown
// ids yields an empty set.
func ParseFormats(ids []string) map[Format]bool {
	out := make(map[Format]bool)
	if ids == nil {
		for _, f := range AllFormats {
			out[f] = true
		}
		return out
	}
	for _, id := range ids {
		switch Format(normalizeID(id)) {
		case FormatHeadlines:
			out[FormatHeadlines] = true
		case FormatBlogOutline:
			out[FormatBlogOutline] = true
		case FormatSocialThread:
			out[FormatSocialThread] = true
		case FormatVideoScript:
			out[FormatVideoScript] = true
		}
	}
	return out
}

// Options are the optional knobs accepted alongside a topic
type Options struct {
	Tone           string
	Audience       string
	ContentFormats []string
}

// SourceItem is one raw fetched unit. It only lives between fetch and
// extraction.
type SourceItem struct {
	Title       string
	URL         string
	Source      string
	Author      string
	PublishedAt *time.Time
	RawText     string
}

// Insight is the structured distillation of exactly one source item. URL is
// its identity within a response.
type Insight struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Summary     string     `json:"summary"`
	KeyPoints   []string   `json:"keyPoints"`
	Keywords    []string   `json:"keywords"`
}

// ContentIdeas holds the four synthesized asset lists. A list is empty, not
// omitted, when its format was not requested or synthesis came up short.
type ContentIdeas struct {
	Headlines   []string `json:"headlines"`
	BlogOutline []string `json:"blogOutline"`
	SocialPosts []string `json:"socialPosts"`
	VideoScript []string `json:"videoScript"`
}

func emptyContentIdeas() ContentIdeas {
	return ContentIdeas{
		Headlines:   []string{},
		BlogOutline: []string{},
		SocialPosts: []string{},
		VideoScript: []string{},
	}
}

// Response is the single payload crossing the boundary back to the caller
type Response struct {
	RetrievedAt  time.Time    `json:"retrievedAt"`
	Insights     []Insight    `json:"insights"`
	ContentIdeas ContentIdeas `json:"contentIdeas"`
}
