package release

import (
	"strings"

	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/semver"
)

// Rules maps commit message substrings to bump levels.
type Rules struct {
	Major []string
	Minor []string
	Patch []string
	// Default applies when nothing else fires. Empty or none means patch.
	Default semver.Level
}

// Overrides force or suppress a level. Nil leaves detection to the rules,
// true forces the level and false skips that level's detection.
type Overrides struct {
	Major *bool
	Minor *bool
	Patch *bool
}

// Classify picks the bump level for a commit range. Levels are tried from
// major down to patch; for each, a true override wins, and an unset override
// falls back to substring matching against the full commit messages. When
// nothing fires the default level applies, so the result is never none.
func Classify(commits []git.Commit, rules Rules, o Overrides) semver.Level {
	levels := []struct {
		level    semver.Level
		override *bool
		patterns []string
	}{
		{semver.LevelMajor, o.Major, rules.Major},
		{semver.LevelMinor, o.Minor, rules.Minor},
		{semver.LevelPatch, o.Patch, rules.Patch},
	}

	for _, l := range levels {
		if l.override != nil {
			if *l.override {
				return l.level
			}
			continue
		}
		if anyMatch(commits, l.patterns) {
			return l.level
		}
	}
	return rules.defaultLevel()
}

func (r Rules) defaultLevel() semver.Level {
	if r.Default == "" || r.Default == semver.LevelNone {
		return semver.LevelPatch
	}
	return r.Default
}

// anyMatch reports whether any commit message contains any pattern.
// Empty patterns never match.
func anyMatch(commits []git.Commit, patterns []string) bool {
	for _, c := range commits {
		if containsAny(c.Message, patterns) {
			return true
		}
	}
	return false
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}
