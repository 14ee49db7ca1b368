package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the content agent
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains LLM provider configurations
type LLMConfig struct {
	Providers map[string]LLMProvider `mapstructure:"providers"`
	Routing   LLMRoutingConfig       `mapstructure:"routing"`
}

// LLMProvider represents a single LLM provider configuration
type LLMProvider struct {
	Type       string              `mapstructure:"type"` // openai, etc.
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Models     map[string]LLMModel `mapstructure:"models"`
	MaxRetries int                 `mapstructure:"max_retries"`
	Timeout    time.Duration       `mapstructure:"timeout"`
}

// LLMModel represents a specific model configuration
type LLMModel struct {
	Name            string  `mapstructure:"name"`
	APIName         string  `mapstructure:"api_name"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	Temperature     float64 `mapstructure:"temperature"`
	CostPer1K       float64 `mapstructure:"cost_per_1k_input"`
	CostPer1KOutput float64 `mapstructure:"cost_per_1k_output"`
}

// LLMRoutingConfig defines which model to use for different pipeline stages
type LLMRoutingConfig struct {
	Extraction string `mapstructure:"extraction"` // Use for insight extraction
	Synthesis  string `mapstructure:"synthesis"`  // Use for content synthesis
	Fallback   string `mapstructure:"fallback"`   // Fallback model
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	PeriodicLogs bool `mapstructure:"periodic_logs"`
}

// AgentConfig contains pipeline tuning knobs
type AgentConfig struct {
	FetchLimit            int           `mapstructure:"fetch_limit"`
	MaxInsights           int           `mapstructure:"max_insights"`
	MinWordCount          int           `mapstructure:"min_word_count"`
	MaxConcurrentExtracts int           `mapstructure:"max_concurrent_extracts"`
	SummarySentences      int           `mapstructure:"summary_sentences"`
	SummaryMaxChars       int           `mapstructure:"summary_max_chars"`
	ExtractTimeout        time.Duration `mapstructure:"extract_timeout"`
	Ranking               RankingConfig `mapstructure:"ranking"`
}

// RankingConfig exposes the aggregator's composite score weighting.
type RankingConfig struct {
	RecencyWeight   float64       `mapstructure:"recency_weight"`
	RelevanceWeight float64       `mapstructure:"relevance_weight"`
	RecencyHalfLife time.Duration `mapstructure:"recency_half_life"`
}

// Normalize applies defaults and rescales the weights to sum to one.
func (r RankingConfig) Normalize() RankingConfig {
	if r.RecencyWeight <= 0 {
		r.RecencyWeight = 0.65
	}
	if r.RelevanceWeight <= 0 {
		r.RelevanceWeight = 0.35
	}
	if sum := r.RecencyWeight + r.RelevanceWeight; sum > 0 {
		r.RecencyWeight /= sum
		r.RelevanceWeight /= sum
	}
	if r.RecencyHalfLife <= 0 {
		r.RecencyHalfLife = 48 * time.Hour
	}
	return r
}

// Normalize applies defaults for unset agent values.
func (a AgentConfig) Normalize() AgentConfig {
	if a.FetchLimit <= 0 {
		a.FetchLimit = 8
	}
	if a.FetchLimit > 12 {
		a.FetchLimit = 12
	}
	if a.MaxInsights <= 0 {
		a.MaxInsights = 8
	}
	if a.MinWordCount <= 0 {
		a.MinWordCount = 40
	}
	if a.MaxConcurrentExtracts <= 0 {
		a.MaxConcurrentExtracts = 4
	}
	if a.SummarySentences <= 0 {
		a.SummarySentences = 3
	}
	if a.SummaryMaxChars <= 0 {
		a.SummaryMaxChars = 420
	}
	if a.ExtractTimeout <= 0 {
		a.ExtractTimeout = 20 * time.Second
	}
	a.Ranking = a.Ranking.Normalize()
	return a
}

// Validate checks agent settings that cannot be defaulted away.
func (a AgentConfig) Validate() error {
	if a.FetchLimit < 1 {
		return fmt.Errorf("agent.fetch_limit must be >= 1")
	}
	if a.MaxInsights < 1 {
		return fmt.Errorf("agent.max_insights must be >= 1")
	}
	return nil
}

// SourcesConfig contains source provider configurations
type SourcesConfig struct {
	NewsAPI   NewsAPIConfig   `mapstructure:"newsapi"`
	WebSearch WebSearchConfig `mapstructure:"web_search"`
}

// NewsAPIConfig contains NewsAPI settings
type NewsAPIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Endpoint   string `mapstructure:"endpoint"`
	MaxResults int    `mapstructure:"max_results"`
}

// WebSearchConfig contains web search settings
type WebSearchConfig struct {
	BraveAPIKey  string        `mapstructure:"brave_api_key"`
	SerperAPIKey string        `mapstructure:"serper_api_key"`
	MaxResults   int           `mapstructure:"max_results"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// Validate ensures at least one provider is usable before the server starts.
func (s SourcesConfig) Validate() error {
	if strings.TrimSpace(s.NewsAPI.APIKey) == "" &&
		strings.TrimSpace(s.WebSearch.SerperAPIKey) == "" &&
		strings.TrimSpace(s.WebSearch.BraveAPIKey) == "" {
		return fmt.Errorf("sources: no provider configured (newsapi.api_key, web_search.serper_api_key or web_search.brave_api_key)")
	}
	return nil
}

// FetchConfig controls article body enrichment
type FetchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Renderer string        `mapstructure:"renderer"` // http or chromedp
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxChars int           `mapstructure:"max_chars"`
}

// Normalize applies fetch defaults.
func (f FetchConfig) Normalize() FetchConfig {
	f.Renderer = strings.ToLower(strings.TrimSpace(f.Renderer))
	if f.Renderer == "" {
		f.Renderer = "http"
	}
	if f.Timeout <= 0 {
		f.Timeout = 15 * time.Second
	}
	if f.MaxChars <= 0 {
		f.MaxChars = 20000
	}
	return f
}

// Validate checks the fetch configuration.
func (f FetchConfig) Validate() error {
	switch f.Renderer {
	case "http", "chromedp":
		return nil
	default:
		return fmt.Errorf("fetch.renderer must be http or chromedp, got %q", f.Renderer)
	}
}

// LoadConfig loads config from file, falling back to env/defaults when no
// config file is present.
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", "30s")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("fetch.enabled", true)
	viper.SetDefault("agent.ranking.recency_weight", 0.65)
	viper.SetDefault("agent.ranking.relevance_weight", 0.35)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("CONTENTAGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match (CONTENTAGENT_*)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// env/defaults only
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	config.Agent = config.Agent.Normalize()
	config.Fetch = config.Fetch.Normalize()
	if config.General.DefaultTimeout <= 0 {
		config.General.DefaultTimeout = 30 * time.Second
	}

	if err := config.Agent.Validate(); err != nil {
		return nil, err
	}
	if err := config.Fetch.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
