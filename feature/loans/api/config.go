package api

// Config holds configuration for the library API endpoint.
type Config struct {
	// BaseURL is the root of the library discovery service.
	BaseURL string `mapstructure:"base_url" default:"https://leitir.is"`
	// Institution is the institution code sent on login.
	Institution string `mapstructure:"institution" default:"354ILC_ALM"`
	// View is the discovery view sent on login.
	View string `mapstructure:"view" default:"354ILC_ALM:10000_UNION"`
	// AuthProfile is the authentication profile sent on login.
	AuthProfile string `mapstructure:"auth_profile" default:"Alma"`
	// Language is the interface language requested from the API.
	Language string `mapstructure:"language" default:"is"`
	// PageSize is the number of loans requested per listing call.
	PageSize int `mapstructure:"page_size" default:"50"`
	// TimeoutSeconds bounds every outbound request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RequestsPerSecond paces calls to the API. Zero disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"0"`
}

// withDefaults fills the fields a zero Config leaves empty.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "https://leitir.is"
	}
	if c.Institution == "" {
		c.Institution = "354ILC_ALM"
	}
	if c.View == "" {
		c.View = "354ILC_ALM:10000_UNION"
	}
	if c.AuthProfile == "" {
		c.AuthProfile = "Alma"
	}
	if c.Language == "" {
		c.Language = "is"
	}
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	return c
}
