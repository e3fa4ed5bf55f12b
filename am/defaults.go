package am

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/annograph/document"
	"github.com/teranos/annograph/errors"
	"github.com/teranos/annograph/graph"
)

// Built-in defaults
const (
	DefaultDatabasePath       = "annograph.db"
	DefaultMinOverlap         = 0.99
	DefaultGraph              = "modal"
	DefaultParentLabel        = "Event"
	DefaultScoreFormat        = "table"
	DefaultIntegrationWorkers = 0
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("matching.min_overlap", DefaultMinOverlap)

	v.SetDefault("integration.graph", DefaultGraph)
	v.SetDefault("integration.default_parent_label", DefaultParentLabel)
	v.SetDefault("integration.workers", DefaultIntegrationWorkers) // one per CPU

	v.SetDefault("scoring.format", DefaultScoreFormat)
	v.SetDefault("scoring.graph", "")
	v.SetDefault("scoring.workers", 0)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars binds the settings most often overridden per run
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "ANNOGRAPH_DATABASE_PATH")
	v.BindEnv("integration.graph", "ANNOGRAPH_INTEGRATION_GRAPH")
	v.BindEnv("log.verbosity", "ANNOGRAPH_LOG_VERBOSITY")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// IntegratorConfig builds the integration settings. Configured variants are
// merged over graph.DefaultVariants.
func (c *Config) IntegratorConfig() (graph.Config, error) {
	cfg := graph.DefaultConfig()
	if c.Integration.Graph != "" {
		cfg.Graph = c.Integration.Graph
	}
	if c.Integration.DefaultParentLabel != "" {
		cfg.DefaultParentLabel = c.Integration.DefaultParentLabel
	}
	if c.Matching.MinOverlap > 0 {
		cfg.MinOverlap = c.Matching.MinOverlap
	}

	labels := make([]string, 0, len(c.Integration.Variants))
	for label := range c.Integration.Variants {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		v, err := document.ParseVariant(c.Integration.Variants[label])
		if err != nil {
			return graph.Config{}, errors.Wrapf(err, "integration.variants.%s", label)
		}
		// viper lowercases keys, so an override replaces the default spelled differently
		for k := range cfg.Variants {
			if strings.EqualFold(k, label) {
				delete(cfg.Variants, k)
			}
		}
		cfg.Variants[label] = v
	}
	return cfg, nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Integration: {Graph: %s, Workers: %d}, Scoring: {Format: %s}}",
		c.Database.Path, c.Integration.Graph, c.Integration.Workers, c.Scoring.Format)
}
