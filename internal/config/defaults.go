package config

import (
	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/release"
)

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# gitci release configuration
# See 'gitci config show' for the effective values

# Bump rules: a commit whose message contains any listed substring
# selects that level. Higher levels win; default applies otherwise.
version-resolver:
  major:
    commits:
      - "BREAKING CHANGE"
  minor:
    commits:
      - "feat"
  patch:
    commits:
      - "fix"
  default: patch                      # major | minor | patch

# Release notes sections, first match wins. Unmatched commits are
# listed under "Changes".
categories:
  - title: "Features"
    commits:
      - "feat"
  - title: "Bug Fixes"
    commits:
      - "fix"

# Release notes template. Placeholders: $CONTRIBUTORS, $CHANGES
# template: |
#   ## Changes
#   Contributors: $CONTRIBUTORS
#
#   $CHANGES

default-version: "1.0.0"              # Baseline when no version tag exists
range-policy: topological             # topological | commit-time
`
}

// GetDefaults returns the default configuration values as a map
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"version-resolver.default": "patch",
		"default-version":          release.DefaultVersion,
		"range-policy":             string(git.PolicyTopological),
		"template":                 "",
	}
}
