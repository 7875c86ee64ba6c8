package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/gitci/internal/changelog"
	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, ".gitci", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, SourceDefault, cfg.Source)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "1.0.0", cfg.DefaultVersion)
	assert.Equal(t, git.PolicyTopological, cfg.Policy())
	assert.Empty(t, cfg.Template)
	assert.Nil(t, cfg.ReleaseCategories())

	rules := cfg.Rules()
	assert.Empty(t, rules.Major)
	assert.Empty(t, rules.Minor)
	assert.Empty(t, rules.Patch)
	assert.Equal(t, semver.LevelPatch, rules.Default)
}

func TestLoad_ProjectYAML(t *testing.T) {
	root := t.TempDir()
	path := writeProjectFile(t, root, "release-config.yml", `
version-resolver:
  major:
    commits: ["BREAKING CHANGE"]
  minor:
    commits: ["feat", "feature"]
  patch:
    commits: ["fix"]
  default: Minor
categories:
  - title: Features
    commits: ["feat"]
  - title: Fixes
    commits: ["fix"]
    labels: ["bug"]
template: |
  # Release
  $CHANGES
default-version: 0.1.0
range-policy: commit-time
`)

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, SourceProject, cfg.Source)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "0.1.0", cfg.DefaultVersion)
	assert.Equal(t, git.PolicyCommitTime, cfg.Policy())
	assert.Equal(t, "# Release\n$CHANGES\n", cfg.Template)

	rules := cfg.Rules()
	assert.Equal(t, []string{"BREAKING CHANGE"}, rules.Major)
	assert.Equal(t, []string{"feat", "feature"}, rules.Minor)
	assert.Equal(t, semver.LevelMinor, rules.Default)

	assert.Equal(t, []changelog.Category{
		{Title: "Features", Commits: []string{"feat"}},
		{Title: "Fixes", Commits: []string{"fix"}, Labels: []string{"bug"}},
	}, cfg.ReleaseCategories())
}

func TestLoad_LegacyJSON(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "release-config.json", `{"version-resolver": {"minor": {"commits": ["feat"]}}, "default-version": "2.0.0"}`)

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: root, WarningWriter: &warnings})
	require.NoError(t, err)

	assert.Equal(t, SourceLegacy, cfg.Source)
	assert.Equal(t, "2.0.0", cfg.DefaultVersion)
	assert.Equal(t, []string{"feat"}, cfg.Rules().Minor)
	assert.Contains(t, warnings.String(), "deprecated JSON config")
}

func TestLoad_YAMLWinsOverLegacy(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "release-config.yml", "default-version: 3.0.0\n")
	writeProjectFile(t, root, "release-config.json", `{"default-version": "2.0.0"}`)

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: root, WarningWriter: &warnings})
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", cfg.DefaultVersion)
	assert.Contains(t, warnings.String(), "ignored")

	warnings.Reset()
	_, err = LoadWithOptions(LoadOptions{ProjectDir: root, WarningWriter: &warnings, SkipWarnings: true})
	require.NoError(t, err)
	assert.Empty(t, warnings.String())
}

func TestLoad_CustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("range-policy: commit-time\n"), 0o644))

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir, ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, SourceCustom, cfg.Source)
	assert.Equal(t, git.PolicyCommitTime, cfg.Policy())

	_, err = LoadWithOptions(LoadOptions{ConfigPath: filepath.Join(dir, "missing.yml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "release-config.yml", "default-version: 3.0.0\nversion-resolver:\n  default: minor\n")

	t.Setenv("GITCI_DEFAULT_VERSION", "5.0.0")
	t.Setenv("GITCI_RANGE_POLICY", "commit-time")
	t.Setenv("GITCI_VERSION_RESOLVER_DEFAULT", "major")
	t.Setenv("GITCI_TEMPLATE", "$CHANGES")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "5.0.0", cfg.DefaultVersion)
	assert.Equal(t, git.PolicyCommitTime, cfg.Policy())
	assert.Equal(t, semver.LevelMajor, cfg.Rules().Default)
	assert.Equal(t, "$CHANGES", cfg.Template)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := map[string]struct {
		content   string
		wantField string
		wantMsg   string
	}{
		"bad default level": {
			content:   "version-resolver:\n  default: huge\n",
			wantField: "version-resolver.default",
			wantMsg:   "must be one of: major, minor, patch",
		},
		"bad range policy": {
			content:   "range-policy: sideways\n",
			wantField: "range-policy",
		},
		"category without title": {
			content:   "categories:\n  - commits: [feat]\n",
			wantField: "categories[0].title",
			wantMsg:   "is required",
		},
		"default version not semver": {
			content:   "default-version: v1\n",
			wantField: "default-version",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			writeProjectFile(t, root, "release-config.yml", tt.content)

			_, err := Load(root)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, verr.Message)
			}
		})
	}
}

func TestLoad_YAMLSyntaxError(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "release-config.yml", "categories:\n  - title: [unclosed\n")

	_, err := Load(root)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Greater(t, verr.Line, 0)
}

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(dir, "missing.yml")))
	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte("  \n"), "empty.yml"))
	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte(GetDefaultConfigTemplate()), "template.yml"))
	assert.Error(t, ValidateYAMLSyntaxFromBytes([]byte("a: b: c"), "bad.yml"))
}

func TestDefaultTemplateLoads(t *testing.T) {
	root := t.TempDir()
	path, written, err := WriteDefaultConfig(root)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, ProjectConfigPath(root), path)

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"feat"}, cfg.Rules().Minor)
	assert.Len(t, cfg.ReleaseCategories(), 2)

	_, written, err = WriteDefaultConfig(root)
	require.NoError(t, err)
	assert.False(t, written, "existing config is kept")
}

func TestMigrateProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	jsonPath := writeProjectFile(t, root, "release-config.json", `{"default-version": "2.1.0", "categories": [{"title": "Features", "commits": ["feat"]}]}`)

	res, err := MigrateProjectConfig(root, true)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NoFileExists(t, ProjectConfigPath(root), "dry run writes nothing")

	res, err = MigrateProjectConfig(root, false)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.FileExists(t, ProjectConfigPath(root))

	require.NoError(t, RemoveLegacyConfig(jsonPath, false))
	assert.NoFileExists(t, jsonPath)
	assert.FileExists(t, jsonPath+".bak")

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: root, SkipWarnings: true})
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", cfg.DefaultVersion)
	assert.Equal(t, "Features", cfg.ReleaseCategories()[0].Title)

	res, err = MigrateProjectConfig(root, false)
	require.NoError(t, err)
	assert.False(t, res.Success, "nothing left to migrate")
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"GITCI_DEFAULT_VERSION":          "default-version",
		"GITCI_RANGE_POLICY":             "range-policy",
		"GITCI_TEMPLATE":                 "template",
		"GITCI_VERSION_RESOLVER_DEFAULT": "version-resolver.default",
	}
	for in, want := range tests {
		assert.Equal(t, want, envTransform(in), in)
	}
}
