package sse

import "time"

// Config holds configuration for SSE room streams
type Config struct {
	// KeepAliveInterval is how often a comment line is sent to keep proxies
	// from closing an idle stream
	KeepAliveInterval time.Duration
}

// DefaultConfig returns the default SSE configuration
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 15 * time.Second,
	}
}
