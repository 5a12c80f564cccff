package natsx

import (
	"fmt"
	"time"
)

const defaultFlushTimeout = 5 * time.Second

// Config captures the runtime parameters for the event publisher.
type Config struct {
	URL          string
	SubjectRoot  string
	ConnectTries uint
	FlushTimeout time.Duration
}

// DefaultConfig initialises Config with defaults for optional fields.
func DefaultConfig() Config {
	return Config{
		SubjectRoot:  "curve",
		ConnectTries: 5,
		FlushTimeout: defaultFlushTimeout,
	}
}

// Validate ensures required fields are populated and durations are sane.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("NATS URL is required")
	}
	if c.SubjectRoot == "" {
		return fmt.Errorf("subject root cannot be empty")
	}
	if c.FlushTimeout <= 0 {
		return fmt.Errorf("flush timeout must be positive")
	}
	return nil
}
