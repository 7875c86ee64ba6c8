package semver

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrVersionOverflow is returned when a bump would exceed the largest
// representable component.
var ErrVersionOverflow = errors.New("version component overflow")

// Level names which numeric component a bump increments.
type Level string

const (
	LevelNone  Level = "none"
	LevelPatch Level = "patch"
	LevelMinor Level = "minor"
	LevelMajor Level = "major"
)

// ParseLevel converts a configuration string into a Level. Matching is
// case-insensitive and an empty string yields LevelNone.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelNone:
		return LevelNone, nil
	case LevelPatch:
		return LevelPatch, nil
	case LevelMinor:
		return LevelMinor, nil
	case LevelMajor:
		return LevelMajor, nil
	default:
		return LevelNone, fmt.Errorf("unknown bump level %q (expected major, minor, patch or none)", s)
	}
}

// Bump returns the version incremented at the given level. Prerelease and
// build metadata are carried over unchanged; use WithPrerelease/WithBuild to
// replace them after bumping.
//
//	major: (M+1).0.0
//	minor: M.(m+1).0
//	patch: M.m.(p+1)
//	none:  unchanged
//
// The incremented component must stay below math.MaxInt; otherwise v is
// returned unchanged with ErrVersionOverflow.
func (v Version) Bump(level Level) (Version, error) {
	next := v
	switch level {
	case LevelMajor:
		if v.Major == math.MaxInt {
			return v, fmt.Errorf("bumping major of %s: %w", v, ErrVersionOverflow)
		}
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case LevelMinor:
		if v.Minor == math.MaxInt {
			return v, fmt.Errorf("bumping minor of %s: %w", v, ErrVersionOverflow)
		}
		next.Minor++
		next.Patch = 0
	case LevelPatch:
		if v.Patch == math.MaxInt {
			return v, fmt.Errorf("bumping patch of %s: %w", v, ErrVersionOverflow)
		}
		next.Patch++
	}
	return next, nil
}
