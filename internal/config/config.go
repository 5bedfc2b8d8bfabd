// Package config loads and parses the application configuration.
// The path to the YAML file comes from one of two places, checked in order:
//  1. The CONFIG_PATH environment variable: CONFIG_PATH=/path/to/config.yaml
//  2. The --config command-line flag:       --config=/path/to/config.yaml
//
// The result is handed around as a *Config pointer — one parsed struct,
// shared by reference, never re-read.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root of the configuration tree. There is deliberately
// little of it: the demo store is in-memory, so there is no storage to
// point at — just the environment name and the listen address.
//
// Each field carries two tags: yaml:"..." names the key in the config
// file, and env:"..." names an environment variable that overrides it.
// env-required:"true" makes a missing value fatal at startup — a server
// that boots with half a config is worse than one that refuses to.
type Config struct {
	// Env selects the logging setup (and anything else that should
	// differ between environments). One of: "dev", "staging", "prod".
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// HTTPServer is embedded by value, so its fields promote onto
	// Config: cfg.HTTPServer.Addr and cfg.Addr name the same thing.
	HTTPServer `yaml:"http_server"`
}

// HTTPServer groups the listener settings under http_server: in YAML.
type HTTPServer struct {
	// Addr is the TCP address to listen on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// MustLoad locates, reads, and validates the configuration.
//
// Per Go convention the "Must" prefix announces that this function does
// not return errors — it log.Fatals instead. Config problems are not
// conditions to handle, they are reasons not to start; if MustLoad
// returns at all, the config is usable.
func MustLoad() *Config {
	// Environment variable first — the natural channel in containers,
	// where flags are awkward to thread through an orchestrator.
	configPath := os.Getenv("CONFIG_PATH")

	// Fall back to the flag, which is friendlier for local runs:
	//   go run ./cmd/demos-api --config=config/local.yaml
	if configPath == "" {
		// flag.String registers the flag and returns a pointer that
		// flag.Parse fills in from os.Args.
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Stat the file up front so a bad path produces a readable message
	// instead of whatever the YAML reader says about an unopenable file.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	// cleanenv does the rest in one call: parse the YAML into the
	// struct, apply env:"..." overrides, enforce env-required.
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
