package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Enabled starts the HTTP API alongside the scheduler.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"10"`
}

// Address returns the listen address for Port.
func (c Config) Address() string {
	return ":" + c.Port
}

// IsProtected reports whether requests must carry the API key.
func (c Config) IsProtected() bool {
	return c.ApiKey != ""
}
