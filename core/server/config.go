package server

import (
	"net"
	"strings"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Host is the interface to bind. Empty binds all interfaces.
	Host string `mapstructure:"host" default:"0.0.0.0"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"3000" validate:"required,numeric"`
	// ApiKey protects the status endpoint when set.
	ApiKey string `mapstructure:"api_key" default:""`
	// PublicDir holds the static map client and the mirror documents.
	PublicDir string `mapstructure:"public_dir" default:"public"`
	// AllowOrigins is a comma separated CORS origin list.
	AllowOrigins string `mapstructure:"allow_origins" default:"*"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Origins returns the trimmed, non-empty CORS origins.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
