package config

// Config is the top-level studyhub configuration, corresponding to .studyhub.yml.
type Config struct {
	APIURL             string       `yaml:"api_url" koanf:"api_url"`
	SheetID            string       `yaml:"sheet_id" koanf:"sheet_id"`
	Sheets             SheetNames   `yaml:"sheets" koanf:"sheets"`
	DataDir            string       `yaml:"data_dir" koanf:"data_dir"`
	Port               int          `yaml:"port" koanf:"port"`
	BaseURL            string       `yaml:"base_url" koanf:"base_url"`
	AllowAllOrigins    bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	SessionKey         string       `yaml:"session_key" koanf:"session_key"`
	SessionIdleMinutes int          `yaml:"session_idle_minutes" koanf:"session_idle_minutes"`
	FetchTimeoutSec    int          `yaml:"fetch_timeout_seconds" koanf:"fetch_timeout_seconds"`
	LogLevel           string       `yaml:"log_level" koanf:"log_level"`
	Replay             ReplayConfig `yaml:"replay" koanf:"replay"`
	Features           FeatureFlags `yaml:"features" koanf:"features"`
	Search             SearchConfig `yaml:"search" koanf:"search"`

	// AllowedLinkHosts restricts where /download redirects may point.
	// Entries are glob patterns matched against the link host, for example
	// "*.google.com". Empty allows any http(s) host.
	AllowedLinkHosts []string `yaml:"allowed_link_hosts,omitempty" koanf:"allowed_link_hosts"`
}

// SheetNames names the six tabs of the backing spreadsheet.
type SheetNames struct {
	Courses      string `yaml:"courses" koanf:"courses"`
	Branches     string `yaml:"branches" koanf:"branches"`
	Semesters    string `yaml:"semesters" koanf:"semesters"`
	Subjects     string `yaml:"subjects" koanf:"subjects"`
	Resources    string `yaml:"resources" koanf:"resources"`
	Universities string `yaml:"universities" koanf:"universities"`
}

// ReplayConfig bounds deep-link replay.
type ReplayConfig struct {
	PollAttempts   int `yaml:"poll_attempts" koanf:"poll_attempts"`
	PollIntervalMS int `yaml:"poll_interval_ms" koanf:"poll_interval_ms"`
	HighlightMS    int `yaml:"highlight_ms" koanf:"highlight_ms"`
}

// FeatureFlags toggles optional page features.
type FeatureFlags struct {
	Breadcrumbs      bool `yaml:"breadcrumbs" koanf:"breadcrumbs"`
	SEOMetadata      bool `yaml:"seo_metadata" koanf:"seo_metadata"`
	DownloadTracking bool `yaml:"download_tracking" koanf:"download_tracking"`
}

// SearchConfig selects the embedding provider behind resource search.
type SearchConfig struct {
	Enabled    bool   `yaml:"enabled" koanf:"enabled"`
	Provider   string `yaml:"provider" koanf:"provider"`
	Model      string `yaml:"model,omitempty" koanf:"model"`
	APIKey     string `yaml:"api_key,omitempty" koanf:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" koanf:"base_url"`
	Dimensions int    `yaml:"dimensions" koanf:"dimensions"`
}

// Search providers.
const (
	SearchProviderLocal  = "local"
	SearchProviderOpenAI = "openai"
	SearchProviderOllama = "ollama"
)
