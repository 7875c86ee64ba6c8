// Package config loads the gitci release configuration using koanf.
// Values are layered with priority: environment variables (GITCI_*) > project
// config (.gitci/release-config.yml) > defaults. A legacy JSON file at
// .gitci/release-config.json is read when no YAML file exists. The loaded
// Configuration is read-only and is passed explicitly to every consumer.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ariel-frischer/gitci/internal/changelog"
	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/release"
	"github.com/ariel-frischer/gitci/internal/semver"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "GITCI_"

// ConfigSource tracks where the configuration came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceProject ConfigSource = "project"
	SourceLegacy  ConfigSource = "legacy"
	SourceCustom  ConfigSource = "custom"
)

// LevelRule lists the commit message substrings that trigger a bump level.
type LevelRule struct {
	Commits []string `koanf:"commits" yaml:"commits,omitempty" json:"commits,omitempty"`
	// Labels are accepted for compatibility with pull request based tools.
	Labels []string `koanf:"labels" yaml:"labels,omitempty" json:"labels,omitempty"`
}

// VersionResolver configures bump classification.
type VersionResolver struct {
	Major   LevelRule `koanf:"major" yaml:"major,omitempty" json:"major,omitempty"`
	Minor   LevelRule `koanf:"minor" yaml:"minor,omitempty" json:"minor,omitempty"`
	Patch   LevelRule `koanf:"patch" yaml:"patch,omitempty" json:"patch,omitempty"`
	Default string    `koanf:"default" yaml:"default" json:"default" validate:"omitempty,oneof=major minor patch"`
}

// Category is a release notes section as written in the config file.
type Category struct {
	Title   string   `koanf:"title" yaml:"title" json:"title" validate:"required"`
	Commits []string `koanf:"commits" yaml:"commits,omitempty" json:"commits,omitempty"`
	Labels  []string `koanf:"labels" yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Configuration is the gitci release configuration.
type Configuration struct {
	VersionResolver VersionResolver `koanf:"version-resolver" yaml:"version-resolver" json:"version-resolver"`
	Categories      []Category      `koanf:"categories" yaml:"categories,omitempty" json:"categories,omitempty" validate:"dive"`
	// Template for release notes with $CONTRIBUTORS and $CHANGES
	// placeholders. Empty selects the built-in template.
	Template       string `koanf:"template" yaml:"template,omitempty" json:"template,omitempty"`
	DefaultVersion string `koanf:"default-version" yaml:"default-version" json:"default-version" validate:"required"`
	RangePolicy    string `koanf:"range-policy" yaml:"range-policy" json:"range-policy" validate:"oneof=topological commit-time"`

	// Source and Path record the file the configuration was read from.
	Source ConfigSource `koanf:"-" yaml:"-" json:"-"`
	Path   string       `koanf:"-" yaml:"-" json:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is the repository root the default paths are relative to.
	ProjectDir string
	// ConfigPath overrides the project config file. It must exist.
	ConfigPath string
	// WarningWriter receives legacy format warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses legacy format warnings
	SkipWarnings bool
}

// Load loads the configuration of the project rooted at projectDir.
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	source, path, err := loadProjectConfig(k, opts, warningWriter)
	if err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k, path)
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	cfg.Path = path
	return cfg, nil
}

func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadProjectConfig loads the project file: an explicit path first, then
// YAML, then legacy JSON. A missing file leaves the defaults in place.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) (ConfigSource, string, error) {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return "", "", fmt.Errorf("config file %s: %w", opts.ConfigPath, os.ErrNotExist)
		}
		parser := koanf.Parser(yaml.Parser())
		if strings.HasSuffix(strings.ToLower(opts.ConfigPath), ".json") {
			parser = json.Parser()
		} else if err := ValidateYAMLSyntax(opts.ConfigPath); err != nil {
			return "", "", fmt.Errorf("validating YAML syntax: %w", err)
		}
		if err := k.Load(file.Provider(opts.ConfigPath), parser); err != nil {
			return "", "", fmt.Errorf("failed to load config %s: %w", opts.ConfigPath, err)
		}
		return SourceCustom, opts.ConfigPath, nil
	}

	yamlPath := ProjectConfigPath(opts.ProjectDir)
	legacyPath := LegacyProjectConfigPath(opts.ProjectDir)
	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath); err != nil {
			return "", "", fmt.Errorf("loading project YAML config: %w", err)
		}
		if legacyExists && !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
			fmt.Fprintf(warningWriter, "  Run 'gitci config migrate' to remove the legacy file.\n\n")
		}
		return SourceProject, yamlPath, nil
	case legacyExists:
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return "", "", fmt.Errorf("failed to load legacy config %s: %w", legacyPath, err)
		}
		if !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Run 'gitci config migrate' to migrate to YAML format.\n\n")
		}
		return SourceLegacy, legacyPath, nil
	default:
		return SourceDefault, "", nil
	}
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged values
func finalizeConfig(k *koanf.Koanf, path string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.VersionResolver.Default = strings.ToLower(strings.TrimSpace(cfg.VersionResolver.Default))

	if path == "" {
		path = "config"
	}
	if err := ValidateConfigValues(&cfg, path); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// envTransform converts environment variable names to config keys.
// Example: GITCI_DEFAULT_VERSION -> default-version,
// GITCI_VERSION_RESOLVER_DEFAULT -> version-resolver.default
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "version_resolver_"); ok {
		return "version-resolver." + strings.ReplaceAll(rest, "_", "-")
	}
	return strings.ReplaceAll(key, "_", "-")
}

// Rules returns the bump classification rules.
func (c *Configuration) Rules() release.Rules {
	level, err := semver.ParseLevel(c.VersionResolver.Default)
	if err != nil {
		level = semver.LevelPatch
	}
	return release.Rules{
		Major:   c.VersionResolver.Major.Commits,
		Minor:   c.VersionResolver.Minor.Commits,
		Patch:   c.VersionResolver.Patch.Commits,
		Default: level,
	}
}

// ReleaseCategories returns the release notes categories in declared order.
func (c *Configuration) ReleaseCategories() []changelog.Category {
	if len(c.Categories) == 0 {
		return nil
	}
	out := make([]changelog.Category, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = changelog.Category{Title: cat.Title, Commits: cat.Commits, Labels: cat.Labels}
	}
	return out
}

// Policy returns the commit range policy.
func (c *Configuration) Policy() git.RangePolicy {
	return git.RangePolicy(c.RangePolicy)
}
