package errors

import (
	"errors"

	"github.com/ariel-frischer/gitci/internal/changelog"
	"github.com/ariel-frischer/gitci/internal/config"
	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/release"
	"github.com/ariel-frischer/gitci/internal/semver"
)

// Translate maps an error returned by the gitci packages to a CLIError with
// remediation. CLIErrors pass through unchanged and unknown errors become
// runtime errors.
func Translate(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		branchErr *git.BranchNotFoundError
		tagErr    *release.TagNotSemVerError
		cfgErr    *config.ValidationError
	)
	switch {
	case errors.Is(err, release.ErrNoTagsFound):
		return NoVersionTags(false)
	case errors.As(err, &branchErr):
		return BranchNotFound(branchErr.Name, branchErr.Available)
	case errors.As(err, &tagErr):
		return TagNotSemVer(tagErr.Tag)
	case errors.Is(err, semver.ErrInvalidVersionFormat):
		return InvalidVersion(err)
	case errors.Is(err, changelog.ErrInvalidProviderConfiguration):
		return InvalidProvider(string(changelog.ProviderGitLab), err)
	case errors.Is(err, git.ErrNotRepository):
		return Wrap(err, Prerequisite, GitNotRepository("").Remediation...)
	case errors.As(err, &cfgErr):
		return ConfigParseError(cfgErr.FilePath, err)
	default:
		return Wrap(err, Runtime)
	}
}
