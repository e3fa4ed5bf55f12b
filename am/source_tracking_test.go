package am

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/annograph/document"
)

// isolate points HOME and the working directory at a fresh temp dir and
// clears the cached configuration.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	root := t.TempDir()
	home = filepath.Join(root, "home")
	project = filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".annograph"), DefaultDirPermissions))
	require.NoError(t, os.MkdirAll(project, DefaultDirPermissions))

	t.Setenv("HOME", home)
	t.Chdir(project)
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), DefaultFilePermissions))
}

func setting(t *testing.T, settings []SettingInfo, key string) SettingInfo {
	t.Helper()
	for _, s := range settings {
		if s.Key == key {
			return s
		}
	}
	t.Fatalf("setting %s not found", key)
	return SettingInfo{}
}

func TestSourceTrackingPrecedence(t *testing.T) {
	home, project := isolate(t)
	userPath := filepath.Join(home, ".annograph", "am.toml")
	projectPath := filepath.Join(project, "am.toml")

	writeFile(t, userPath, `
[database]
path = "user.db"

[integration]
graph = "user-graph"
workers = 4
`)
	writeFile(t, projectPath, `
[integration]
graph = "project-graph"

[integration.variants]
Timex = "mention"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "user.db", cfg.Database.Path, "user layer survives a project file without [database]")
	assert.Equal(t, "project-graph", cfg.Integration.Graph, "project wins over user")
	assert.Equal(t, 4, cfg.Integration.Workers, "sibling keys of an overridden section survive")
	assert.Equal(t, DefaultMinOverlap, cfg.Matching.MinOverlap)

	gc, err := cfg.IntegratorConfig()
	require.NoError(t, err)
	assert.Equal(t, document.Mention, gc.VariantFor("Timex"))
	assert.Equal(t, document.EventMention, gc.VariantFor("Event"))

	settings := Introspect()
	assert.Equal(t, SourceUser, setting(t, settings, "database.path").Source)
	assert.Equal(t, userPath, setting(t, settings, "database.path").SourcePath)
	assert.Equal(t, SourceProject, setting(t, settings, "integration.graph").Source)
	assert.Equal(t, SourceUser, setting(t, settings, "integration.workers").Source)
	assert.Equal(t, SourceProject, setting(t, settings, "integration.variants.timex").Source)
	assert.Equal(t, SourceDefault, setting(t, settings, "scoring.format").Source)

	counts := SourceCounts(settings)
	assert.Equal(t, 2, counts[SourceUser])
	assert.Equal(t, 2, counts[SourceProject])
}

func TestSourceTrackingEnvironmentWins(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, "am.toml"), `
[database]
path = "project.db"
`)
	t.Setenv("ANNOGRAPH_DATABASE_PATH", "env.db")
	t.Setenv("ANNOGRAPH_SCORING_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Scoring.Format)

	info, ok := Where("database.path")
	require.True(t, ok)
	assert.Equal(t, SourceEnvironment, info.Source)
	assert.Equal(t, "ANNOGRAPH_DATABASE_PATH", info.SourcePath)
	assert.Equal(t, "env.db", GetString("database.path"))

	_, ok = Where("no.such.key")
	assert.False(t, ok)
}

func TestLoadIsCachedUntilReset(t *testing.T) {
	_, project := isolate(t)
	path := filepath.Join(project, "am.toml")
	writeFile(t, path, "[integration]\ngraph = \"first\"\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Integration.Graph)

	writeFile(t, path, "[integration]\ngraph = \"second\"\n")
	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again)

	Reset()
	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "second", reloaded.Integration.Graph)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `
[matching]
min_overlap = 0.75

[scoring]
format = "yaml"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Matching.MinOverlap)
	assert.Equal(t, "yaml", cfg.Scoring.Format)
	assert.Equal(t, DefaultGraph, cfg.Integration.Graph)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestMarshalFormats(t *testing.T) {
	cfg := &Config{
		Database:    DatabaseConfig{Path: "corpus.db"},
		Matching:    MatchingConfig{MinOverlap: 0.9},
		Integration: IntegrationConfig{Graph: "modal", Variants: map[string]string{"timex": "value_mention"}},
		Scoring:     ScoringConfig{Format: "json"},
	}

	data, err := Marshal(cfg, FormatTOML)
	require.NoError(t, err)
	var fromTOML Config
	require.NoError(t, toml.Unmarshal(data, &fromTOML))
	assert.Equal(t, *cfg, fromTOML)

	data, err = Marshal(cfg, FormatYAML)
	require.NoError(t, err)
	var fromYAML Config
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, *cfg, fromYAML)

	data, err = Marshal(cfg, FormatJSON)
	require.NoError(t, err)
	var fromJSON Config
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, *cfg, fromJSON)

	_, err = Marshal(cfg, "ini")
	assert.Error(t, err)
}

func TestSaveToFileRotatesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "am.toml")
	cfg := &Config{
		Matching:    MatchingConfig{MinOverlap: 0.99},
		Integration: IntegrationConfig{Graph: "g0"},
	}

	for i, graph := range []string{"g0", "g1", "g2", "g3", "g4"} {
		cfg.Integration.Graph = graph
		require.NoError(t, SaveToFile(cfg, path), "save %d", i)
	}

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "g4", loaded.Integration.Graph)

	for suffix, want := range map[string]string{".back1": "g3", ".back2": "g2", ".back3": "g1"} {
		data, err := os.ReadFile(path + suffix)
		require.NoError(t, err)
		assert.True(t, bytes.Contains(data, []byte(want)), "%s should hold %s", suffix, want)
	}
	_, err = os.Stat(path + ".back4")
	assert.True(t, os.IsNotExist(err))
}

func TestSaveToFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	err := SaveToFile(&Config{Matching: MatchingConfig{MinOverlap: 2}, Integration: IntegrationConfig{Graph: "modal"}}, path)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "ANNOGRAPH_MATCHING_MIN_OVERLAP", EnvVarName("matching.min_overlap"))
}
