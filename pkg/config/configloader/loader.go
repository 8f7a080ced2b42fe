// Package configloader layers configuration sources: a config.yaml next to
// the binary, then a .env file, then system environment variables. Later
// sources override earlier ones.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const configFile = "config.yaml"

type Validator interface {
	Validate() error
}

// Load builds and validates the configuration for the named service.
// Environment variables are matched by the <SERVICENAME>_ prefix, with
// underscores mapping to key separators (STORE_DATABASE_URL -> database.url).
func Load[T Validator](serviceName string) (T, error) {
	var cfg T
	k := koanf.New(".")
	envPrefix := strings.ToUpper(serviceName) + "_"
	keyOf := func(envKey string) string {
		key := strings.ToLower(envKey)
		key = strings.TrimPrefix(key, strings.ToLower(envPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	loadYamlFile(k)
	loadDotEnv(k, keyOf)

	// System environment variables take the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", keyOf), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadYamlFile merges config.yaml if it exists. A missing file is fine, a
// malformed one is only logged so env-only deployments keep working.
func loadYamlFile(k *koanf.Koanf) {
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}
}

// loadDotEnv merges a .env file using the same key convention as system
// environment variables.
func loadDotEnv(k *koanf.Koanf, keyOf func(string) string) {
	envFileMap, err := godotenv.Read(".env")
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error reading .env file: %v", err)
		}
		return
	}
	envMap := make(map[string]any, len(envFileMap))
	for key, value := range envFileMap {
		envMap[keyOf(key)] = value
	}
	if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
		log.Printf("WARN: error loading .env config: %v", err)
	}
}
