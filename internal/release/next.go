package release

import (
	"context"
	"fmt"

	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/semver"
	"github.com/rs/zerolog"
)

// shortShaLength is the number of sha characters used as build metadata.
const shortShaLength = 8

// Repository is the read-only repository access release needs.
// *git.Repository implements it.
type Repository interface {
	Tags() ([]git.Tag, error)
	CurrentBranch() (git.Branch, error)
	BranchExists(name string) (bool, error)
	Branches() ([]git.Branch, error)
	HeadCommit() (string, error)
	Commits(ctx context.Context, opts git.RangeOptions) ([]git.Commit, error)
}

// Current is the version of the latest tag.
type Current struct {
	Tag     git.Tag
	Version semver.Version
}

// CurrentVersion returns the latest version tag, or ErrNoTagsFound.
func CurrentVersion(repo Repository, includePrerelease bool, log zerolog.Logger) (Current, error) {
	tags, err := repo.Tags()
	if err != nil {
		return Current{}, err
	}

	for _, c := range ListVersionTags(tags, includePrerelease) {
		log.Debug().Str("tag", c.Tag.Name).Str("version", c.Version.String()).Msg("version tag candidate")
	}

	tag, v, ok := FindLatestTag(tags, includePrerelease)
	if !ok {
		return Current{}, ErrNoTagsFound
	}
	return Current{Tag: tag, Version: v}, nil
}

// NextOptions configures NextVersion.
type NextOptions struct {
	// Branch to resolve on; empty means the current branch.
	Branch            string
	IncludePrerelease bool
	// CurrentVersion skips tag detection when set. The whole branch history
	// is classified in that case.
	CurrentVersion string
	DefaultVersion string
	Rules          Rules
	Overrides      Overrides
	Prerelease     *string
	Build          *string
	// AutoDetectBuild sets the build metadata to the short sha of the newest
	// commit in range (HEAD when the range is empty) when Build is nil.
	AutoDetectBuild  bool
	ForceIfUnchanged bool
	Policy           git.RangePolicy
}

// NextResult is the outcome of NextVersion.
type NextResult struct {
	Baseline Baseline
	Branch   string
	Commits  []git.Commit
	Level    semver.Level
	Version  semver.Version
}

// NextVersion computes the next version of a branch: it selects the
// baseline, collects the commits since the baseline tag and resolves them.
func NextVersion(ctx context.Context, repo Repository, opts NextOptions, log zerolog.Logger) (NextResult, error) {
	var latest *git.Tag
	if opts.CurrentVersion == "" {
		tags, err := repo.Tags()
		if err != nil {
			return NextResult{}, err
		}
		if tag, _, ok := FindLatestTag(tags, opts.IncludePrerelease); ok {
			latest = &tag
		}
	}

	baseline, err := SelectBaseline(opts.CurrentVersion, latest, opts.DefaultVersion)
	if err != nil {
		return NextResult{}, err
	}
	log.Info().
		Str("version", baseline.Version.String()).
		Str("source", string(baseline.Source)).
		Msg("current version")

	branch, err := ResolveBranch(repo, opts.Branch)
	if err != nil {
		return NextResult{}, err
	}

	rangeOpts := git.RangeOptions{Branch: branch, Policy: opts.Policy}
	if baseline.Tag != nil {
		rangeOpts.From = baseline.Tag.Sha
		log.Info().Str("tag", baseline.Tag.Name).Str("branch", branch).Msg("resolving version from tag")
	} else {
		log.Info().Str("branch", branch).Msg("resolving version from branch history")
	}

	commits, err := repo.Commits(ctx, rangeOpts)
	if err != nil {
		return NextResult{}, fmt.Errorf("collecting commits: %w", err)
	}

	build := opts.Build
	if build == nil && opts.AutoDetectBuild {
		sha, err := newestSha(repo, commits)
		if err != nil {
			return NextResult{}, err
		}
		short := shortSha(sha)
		build = &short
	}

	next, level, err := Resolve(ResolveInput{
		Baseline:         baseline.Version,
		Commits:          commits,
		Rules:            opts.Rules,
		Overrides:        opts.Overrides,
		Prerelease:       opts.Prerelease,
		Build:            build,
		ForceIfUnchanged: opts.ForceIfUnchanged,
	})
	if err != nil {
		return NextResult{}, err
	}

	log.Info().
		Int("commits", len(commits)).
		Str("level", string(level)).
		Str("next", next.String()).
		Msg("resolved next version")

	return NextResult{
		Baseline: baseline,
		Branch:   branch,
		Commits:  commits,
		Level:    level,
		Version:  next,
	}, nil
}

// ResolveBranch defaults to the current branch and checks that it exists.
func ResolveBranch(repo Repository, name string) (string, error) {
	if name == "" {
		current, err := repo.CurrentBranch()
		if err != nil {
			return "", err
		}
		name = current.Name
	}
	ok, err := repo.BranchExists(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", branchNotFound(repo, name)
	}
	return name, nil
}

// branchNotFound builds the error for a missing branch, listing the branches
// that do exist. A failed listing leaves Available empty.
func branchNotFound(repo Repository, name string) error {
	err := &git.BranchNotFoundError{Name: name}
	branches, listErr := repo.Branches()
	if listErr != nil {
		return err
	}
	for _, b := range branches {
		err.Available = append(err.Available, b.Name)
	}
	return err
}

func newestSha(repo Repository, commits []git.Commit) (string, error) {
	if len(commits) > 0 {
		return commits[0].Sha, nil
	}
	return repo.HeadCommit()
}

func shortSha(sha string) string {
	if len(sha) > shortShaLength {
		return sha[:shortShaLength]
	}
	return sha
}
