package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps request bodies, CSV uploads included.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"16"`
}

const defaultBodyLimitMB = 16

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	mb := c.BodyLimitMB
	if mb <= 0 {
		mb = defaultBodyLimitMB
	}
	return mb * 1024 * 1024
}

// AuthEnabled reports whether requests must present the API key.
func (c Config) AuthEnabled() bool {
	return c.ApiKey != ""
}
