// Package am loads the annograph configuration ("I am").
//
// Values come from built-in defaults, then /etc/annograph/am.toml,
// ~/.annograph/am.toml and the nearest project am.toml, then ANNOGRAPH_*
// environment variables, each layer overriding the previous one.
package am

// Config is the annograph configuration.
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database" toml:"database" yaml:"database" json:"database"`
	Matching    MatchingConfig    `mapstructure:"matching" toml:"matching" yaml:"matching" json:"matching"`
	Integration IntegrationConfig `mapstructure:"integration" toml:"integration" yaml:"integration" json:"integration"`
	Scoring     ScoringConfig     `mapstructure:"scoring" toml:"scoring" yaml:"scoring" json:"scoring"`
	Log         LogConfig         `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
}

// DatabaseConfig configures the SQLite graph store
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" yaml:"path" json:"path"`
}

// MatchingConfig configures span resolution thresholds
type MatchingConfig struct {
	// IoU a syntax node must reach (default: 0.99)
	MinOverlap float64 `mapstructure:"min_overlap" toml:"min_overlap" yaml:"min_overlap" json:"min_overlap"`
}

// IntegrationConfig configures edge-list integration
type IntegrationConfig struct {
	Graph              string `mapstructure:"graph" toml:"graph" yaml:"graph" json:"graph"`
	DefaultParentLabel string `mapstructure:"default_parent_label" toml:"default_parent_label" yaml:"default_parent_label" json:"default_parent_label"`
	// label = "variant", merged over the built-in table
	Variants map[string]string `mapstructure:"variants" toml:"variants" yaml:"variants" json:"variants"`
	// 0 = one per CPU
	Workers int `mapstructure:"workers" toml:"workers" yaml:"workers" json:"workers"`
}

// ScoringConfig configures edge-set scoring
type ScoringConfig struct {
	// table, json or yaml
	Format string `mapstructure:"format" toml:"format" yaml:"format" json:"format"`
	// graph projected from stored documents; empty = all edges
	Graph   string `mapstructure:"graph" toml:"graph" yaml:"graph" json:"graph"`
	Workers int    `mapstructure:"workers" toml:"workers" yaml:"workers" json:"workers"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	// 0 = warn, 1 = info, 2+ = debug
	Verbosity int `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
