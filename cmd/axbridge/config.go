package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/axbridge/axtree"
	"github.com/hazyhaar/axbridge/bridge"
	"github.com/hazyhaar/axbridge/observability"
	"github.com/hazyhaar/axbridge/surface/rodpage"
)

// config is the top-level axbridge configuration.
type config struct {
	// URL of the page the engine drives. Required unless given by flag.
	URL string `yaml:"url"`

	Browser rodpage.ManagerConfig `yaml:"browser"`
	Engine  axtree.Config         `yaml:"engine"`
	Bridge  bridge.Config         `yaml:"bridge"`

	// RoutesDB enables SQLite-backed operation routing with hot reload.
	// Empty keeps all operations local.
	RoutesDB string `yaml:"routes_db"`

	// ObservabilityDB enables tool call logging and worker heartbeats.
	ObservabilityDB string `yaml:"observability_db"`

	// Retention prunes old observability rows; applied daily when the
	// observability DB is enabled.
	Retention observability.RetentionConfig `yaml:"retention"`
}

func loadConfig(path string) (*config, error) {
	var cfg config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *config) applyDefaults() {
	// Engine and frame-size defaults are applied by their packages; the
	// listen address is read here, so it is defaulted here.
	if c.Bridge.HTTPAddr == "" {
		c.Bridge.HTTPAddr = "127.0.0.1:9822"
	}
	if c.Retention.ToolCallsDays <= 0 {
		c.Retention.ToolCallsDays = 14
	}
	if c.Retention.HeartbeatsDays <= 0 {
		c.Retention.HeartbeatsDays = 14
	}
}
