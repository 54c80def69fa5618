package policylens

// Provider names a model provider for the models backend.
type Provider string

// Model providers.
const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// ExtractorName selects the main-content extractor.
type ExtractorName string

// Main-content extractors.
const (
	ExtractorTrafilatura ExtractorName = "trafilatura"
	ExtractorReadability ExtractorName = "readability"
)

// Config holds the settings of an analysis pipeline.
// Empty heuristic lists select the built-in defaults.
type Config struct {
	Mode     BackendMode `mapstructure:"mode"`
	Provider Provider    `mapstructure:"provider"`

	// SummaryModel and ClassifierModel identify the models to acquire.
	// The same identifier is acquired once and reused across runs.
	SummaryModel    string `mapstructure:"summary_model"`
	ClassifierModel string `mapstructure:"classifier_model"`

	// BaseURL points the openai provider at a compatible server.
	BaseURL string `mapstructure:"base_url"`

	// RemoteURL is the analysis endpoint used in remote mode.
	RemoteURL string `mapstructure:"remote_url"`

	MaxChunkLength int      `mapstructure:"max_chunk_length"`
	Strategy       Strategy `mapstructure:"strategy"`
	TopK           int      `mapstructure:"top_k"`
	Concurrency    int      `mapstructure:"concurrency"`

	// RequestsPerSecond limits fetches per domain.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	// Extractor titles the policy page and recovers its text when no
	// content heuristic matches.
	Extractor ExtractorName `mapstructure:"extractor"`

	LinkHeuristics    []Heuristic `mapstructure:"link_heuristics"`
	ContentHeuristics []Heuristic `mapstructure:"content_heuristics"`

	Database string `mapstructure:"database"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Mode:              BackendModels,
		Provider:          ProviderGemini,
		SummaryModel:      "gemini-2.5-flash",
		ClassifierModel:   "gemini-2.5-flash-lite",
		MaxChunkLength:    DefaultMaxChunkLength,
		Strategy:          StrategyMeanAll,
		Concurrency:       4,
		RequestsPerSecond: 1,
		Extractor:         ExtractorTrafilatura,
		Database:          "policylens.db",
	}
}

// Validate returns an error if the configuration cannot drive a pipeline.
func (c *Config) Validate() error {
	switch c.Mode {
	case BackendModels:
		switch c.Provider {
		case ProviderGemini, ProviderOpenAI:
		default:
			return Errorf(EINVALID, "unknown provider %q", c.Provider)
		}
		if c.SummaryModel == "" || c.ClassifierModel == "" {
			return Errorf(EINVALID, "summary and classifier models required")
		}
	case BackendRemote:
		if c.RemoteURL == "" {
			return Errorf(EINVALID, "remote URL required in remote mode")
		}
	default:
		return Errorf(EINVALID, "unknown backend mode %q", c.Mode)
	}
	switch c.Extractor {
	case ExtractorTrafilatura, ExtractorReadability:
	default:
		return Errorf(EINVALID, "unknown extractor %q", c.Extractor)
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	for _, h := range c.LinkHeuristics {
		if h.Selector == "" {
			return Errorf(EINVALID, "link heuristic selector required")
		}
	}
	for _, h := range c.ContentHeuristics {
		if h.Selector == "" {
			return Errorf(EINVALID, "content heuristic selector required")
		}
	}
	return nil
}
