package am

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/annograph/am.toml
	SourceUser        ConfigSource = "user"        // ~/.annograph/am.toml
	SourceProject     ConfigSource = "project"     // nearest am.toml upwards
	SourceEnvironment ConfigSource = "environment" // ANNOGRAPH_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// Introspect lists every effective setting with the layer that supplied it
func Introspect() []SettingInfo {
	mu.Lock()
	defer mu.Unlock()
	v := initViper()
	return introspect(v, ConfigSources)
}

func introspect(v *viper.Viper, sources map[string]SourceInfo) []SettingInfo {
	keys := v.AllKeys()
	sort.Strings(keys)

	settings := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sources[key]; ok {
			info = si
		}

		envKey := EnvVarName(key)
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		settings = append(settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return settings
}

// Where reports the source of a single key
func Where(key string) (SettingInfo, bool) {
	key = strings.ToLower(key)
	for _, s := range Introspect() {
		if s.Key == key {
			return s, true
		}
	}
	return SettingInfo{}, false
}

// EnvVarName returns the environment variable overriding key
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SourceCounts counts settings per source
func SourceCounts(settings []SettingInfo) map[ConfigSource]int {
	counts := make(map[ConfigSource]int)
	for _, s := range settings {
		counts[s.Source]++
	}
	return counts
}
