package config

import (
	"fmt"
	"strings"
	"time"
)

type NATSConfig struct {
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *NATSConfig) Validate() error {
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	if !strings.HasPrefix(c.Url, "nats://") {
		return fmt.Errorf("NATS URL must start with 'nats://': %s", c.Url)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("NATS dial timeout is not configured")
	}
	return nil
}
