// Package release resolves versions from repository history: it finds the
// latest version tag, classifies a commit range into a bump level and
// computes the next semantic version.
package release

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/semver"
)

// ErrNoTagsFound is returned when a repository has no tag that parses as a
// version (or, without prereleases, no stable one).
var ErrNoTagsFound = errors.New("no version tags found")

// TagNotSemVerError reports a tag that was expected to name a version.
type TagNotSemVerError struct {
	Tag string
}

func (e *TagNotSemVerError) Error() string {
	return fmt.Sprintf("tag %q is not a semantic version", e.Tag)
}

// Candidate is a tag whose name parses as a version.
type Candidate struct {
	Tag     git.Tag
	Version semver.Version
}

// ListVersionTags returns every version tag sorted from the greatest version
// down. Tags that do not parse are skipped. Prereleases are dropped unless
// includePrerelease is set. Equal versions keep their input order.
func ListVersionTags(tags []git.Tag, includePrerelease bool) []Candidate {
	var out []Candidate
	for _, tag := range tags {
		v, ok := semver.ParseTag(tag.Name)
		if !ok {
			continue
		}
		if v.IsPrerelease() && !includePrerelease {
			continue
		}
		out = append(out, Candidate{Tag: tag, Version: v})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Version.Less(out[i].Version)
	})
	return out
}

// FindLatestTag returns the tag with the greatest version. Ties go to the
// first tag in input order. The bool is false when no tag qualifies.
func FindLatestTag(tags []git.Tag, includePrerelease bool) (git.Tag, semver.Version, bool) {
	var (
		best    git.Tag
		bestVer semver.Version
		found   bool
	)
	for _, tag := range tags {
		v, ok := semver.ParseTag(tag.Name)
		if !ok {
			continue
		}
		if v.IsPrerelease() && !includePrerelease {
			continue
		}
		if !found || bestVer.Less(v) {
			best, bestVer, found = tag, v, true
		}
	}
	return best, bestVer, found
}

// VersionOfTag parses the version named by a tag.
func VersionOfTag(tag git.Tag) (semver.Version, error) {
	v, ok := semver.ParseTag(tag.Name)
	if !ok {
		return semver.Version{}, &TagNotSemVerError{Tag: tag.Name}
	}
	return v, nil
}
