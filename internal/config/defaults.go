package config

import "time"

// DefaultAPIURL is the public opensheet endpoint.
const DefaultAPIURL = "https://opensheet.elk.sh/"

// DefaultSheets are the tab names used by the reference spreadsheet.
var DefaultSheets = SheetNames{
	Courses:      "Courses",
	Branches:     "Branches",
	Semesters:    "Semesters",
	Subjects:     "Subjects",
	Resources:    "Resources",
	Universities: "Universities",
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:             DefaultAPIURL,
		Sheets:             DefaultSheets,
		DataDir:            ".studyhub",
		Port:               8080,
		SessionIdleMinutes: 120,
		FetchTimeoutSec:    30,
		LogLevel:           "info",
		Replay: ReplayConfig{
			PollAttempts:   20,
			PollIntervalMS: 250,
			HighlightMS:    3000,
		},
		Features: FeatureFlags{
			Breadcrumbs:      true,
			SEOMetadata:      true,
			DownloadTracking: true,
		},
		Search: SearchConfig{
			Enabled:    true,
			Provider:   SearchProviderLocal,
			Dimensions: 256,
		},
	}
}

// PollInterval returns the replay poll interval as a duration.
func (r ReplayConfig) PollInterval() time.Duration {
	return time.Duration(r.PollIntervalMS) * time.Millisecond
}

// HighlightDuration returns how long a shared item stays highlighted.
func (r ReplayConfig) HighlightDuration() time.Duration {
	return time.Duration(r.HighlightMS) * time.Millisecond
}

// WaitBudget is the longest a replay waits for data: attempts x interval.
func (r ReplayConfig) WaitBudget() time.Duration {
	return time.Duration(r.PollAttempts) * r.PollInterval()
}

// FetchTimeout returns the sheet fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// SessionIdle returns how long an unused visitor session is kept.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}
