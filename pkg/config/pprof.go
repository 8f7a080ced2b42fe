package config

import (
	"fmt"
	"strings"
)

type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("pprof is enabled but address is not configured")
	}
	if !strings.Contains(c.Addr, ":") {
		return fmt.Errorf("pprof address must be host:port or :port: %s", c.Addr)
	}
	return nil
}
