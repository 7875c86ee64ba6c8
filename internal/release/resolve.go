package release

import (
	"fmt"

	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/semver"
)

// DefaultVersion is the baseline used when there is no tag and no
// configured default.
const DefaultVersion = "1.0.0"

// BaselineSource records where a baseline version came from.
type BaselineSource string

const (
	SourceExplicit BaselineSource = "explicit"
	SourceTag      BaselineSource = "tag"
	SourceDefault  BaselineSource = "default"
)

// Baseline is the version a resolution starts from.
type Baseline struct {
	Version semver.Version
	// Tag is set when the version came from a tag.
	Tag    *git.Tag
	Source BaselineSource
}

// SelectBaseline picks the baseline version: an explicit version string
// first, then the latest tag, then defaultVersion (DefaultVersion when
// empty). An explicit or default string that does not parse is an error;
// it is never replaced by a fallback.
func SelectBaseline(explicit string, latest *git.Tag, defaultVersion string) (Baseline, error) {
	if explicit != "" {
		v, err := semver.Parse(explicit)
		if err != nil {
			return Baseline{}, fmt.Errorf("parsing current version: %w", err)
		}
		return Baseline{Version: v, Source: SourceExplicit}, nil
	}

	if latest != nil {
		v, err := VersionOfTag(*latest)
		if err != nil {
			return Baseline{}, err
		}
		tag := *latest
		return Baseline{Version: v, Tag: &tag, Source: SourceTag}, nil
	}

	if defaultVersion == "" {
		defaultVersion = DefaultVersion
	}
	v, err := semver.Parse(defaultVersion)
	if err != nil {
		return Baseline{}, fmt.Errorf("parsing default version: %w", err)
	}
	return Baseline{Version: v, Source: SourceDefault}, nil
}

// ResolveInput is everything Resolve needs to compute a next version.
type ResolveInput struct {
	Baseline  semver.Version
	Commits   []git.Commit
	Rules     Rules
	Overrides Overrides
	// Prerelease and Build replace the metadata when non-nil. An empty
	// string clears the field.
	Prerelease *string
	Build      *string
	// ForceIfUnchanged adds a patch bump when the result would otherwise
	// equal the baseline (build metadata ignored).
	ForceIfUnchanged bool
}

// Resolve classifies the commits, bumps the baseline and applies metadata.
// It returns the classified level along with the version.
func Resolve(in ResolveInput) (semver.Version, semver.Level, error) {
	level := Classify(in.Commits, in.Rules, in.Overrides)
	next, err := in.Baseline.Bump(level)
	if err != nil {
		return semver.Version{}, level, err
	}

	if in.Prerelease != nil {
		if next, err = next.WithPrerelease(*in.Prerelease); err != nil {
			return semver.Version{}, level, fmt.Errorf("applying prerelease: %w", err)
		}
	}
	if in.Build != nil {
		if next, err = next.WithBuild(*in.Build); err != nil {
			return semver.Version{}, level, fmt.Errorf("applying build metadata: %w", err)
		}
	}

	if in.ForceIfUnchanged && next.Equal(in.Baseline) {
		if next, err = next.Bump(semver.LevelPatch); err != nil {
			return semver.Version{}, level, err
		}
	}
	return next, level, nil
}
