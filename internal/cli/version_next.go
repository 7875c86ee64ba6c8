package cli

import (
	"fmt"

	"github.com/ariel-frischer/gitci/internal/output"
	"github.com/ariel-frischer/gitci/internal/release"
	"github.com/spf13/cobra"
)

var versionNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Compute the next version from commit history",
	Long: `Compute the next semantic version of a branch.

The baseline is --current-version when given, otherwise the latest version
tag, otherwise --default-version. The commits since the baseline tag are
classified with the version-resolver rules of the release config: the first
of major, minor and patch whose patterns match any commit message wins.
When nothing matches, the configured default level applies.

--major-ver, --minor-ver and --patch-ver force a level on (=true) or turn its
pattern matching off (=false). Without them the rules decide.

By default the build metadata is the short sha of the newest commit in range.

Inside GitHub Actions the version is also exported to $GITHUB_ENV as
GITCI_NEXT_VERSION and GITCI_NEXT_VERSION_* variables.

Exit codes:
  0 - Version computed
  3 - Invalid version, branch or metadata
  4 - No git repository`,
	Example: `  # Next version of the current branch
  gitci version next

  # Next release candidate without build metadata
  gitci version next --prerelease-ver rc.1 --auto-detect-build-ver=false

  # Force a minor bump regardless of commit messages
  gitci version next --minor-ver

  # Start from an explicit version on another branch
  gitci version next --current-version 2.3.0 --branch origin/release

  # dotenv file for later CI steps
  gitci version next --format dotenv --dotenv-var-name APP_VERSION -o version.env`,
	Args: cobra.NoArgs,
	RunE: runVersionNext,
}

func init() {
	addVersionNextFlags(versionNextCmd)
	addResultFlags(versionNextCmd, "NEXT_VERSION")
	versionCmd.AddCommand(versionNextCmd)
}

func addVersionNextFlags(cmd *cobra.Command) {
	cmd.Flags().String("default-version", "", "Baseline when no tag exists (default: default-version from config)")
	cmd.Flags().String("current-version", "", "Baseline version; skips tag detection")
	cmd.Flags().Bool("major-ver", false, "Force (=true) or disable (=false) a major bump")
	cmd.Flags().Bool("minor-ver", false, "Force (=true) or disable (=false) a minor bump")
	cmd.Flags().Bool("patch-ver", false, "Force (=true) or disable (=false) a patch bump")
	cmd.Flags().String("prerelease-ver", "", "Set the prerelease identifiers, e.g. beta.1")
	cmd.Flags().String("build-ver", "", "Set the build metadata")
	cmd.Flags().Bool("auto-detect-build-ver", true, "Use the short sha of the newest commit as build metadata when --build-ver is not given")
	cmd.Flags().Bool("force-update", true, "Bump patch when the version would otherwise not change")
}

// levelOverrides reads the tri-state level flags: unset flags leave the
// level to the rules.
func levelOverrides(cmd *cobra.Command) release.Overrides {
	var o release.Overrides
	o.Major = changedBool(cmd, "major-ver")
	o.Minor = changedBool(cmd, "minor-ver")
	o.Patch = changedBool(cmd, "patch-ver")
	return o
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// nextOptions collects release.NextOptions from the flags of cmd and the
// loaded configuration.
func nextOptions(cmd *cobra.Command, s *session) release.NextOptions {
	branch, _ := cmd.Flags().GetString("branch")
	includePrerelease, _ := cmd.Flags().GetBool("include-prerelease")
	currentVersion, _ := cmd.Flags().GetString("current-version")
	defaultVersion, _ := cmd.Flags().GetString("default-version")
	autoBuild, _ := cmd.Flags().GetBool("auto-detect-build-ver")
	force, _ := cmd.Flags().GetBool("force-update")

	if defaultVersion == "" {
		defaultVersion = s.cfg.DefaultVersion
	}

	return release.NextOptions{
		Branch:            branch,
		IncludePrerelease: includePrerelease,
		CurrentVersion:    currentVersion,
		DefaultVersion:    defaultVersion,
		Rules:             s.cfg.Rules(),
		Overrides:         levelOverrides(cmd),
		Prerelease:        changedString(cmd, "prerelease-ver"),
		Build:             changedString(cmd, "build-ver"),
		AutoDetectBuild:   autoBuild,
		ForceIfUnchanged:  force,
		Policy:            s.cfg.Policy(),
	}
}

func runVersionNext(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd.Context())
	if err != nil {
		return err
	}

	result, err := release.NextVersion(cmd.Context(), s.repo, nextOptions(cmd, s), s.log)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	output.PrintVersion(stderr, "Current version", result.Baseline.Version.String())
	if result.Baseline.Tag != nil {
		output.PrintStep(stderr, fmt.Sprintf("Resolved from tag %s of branch '%s' (%d commits)",
			result.Baseline.Tag.Name, result.Branch, len(result.Commits)))
	} else {
		output.PrintStep(stderr, fmt.Sprintf("Resolved from branch '%s' (%d commits)", result.Branch, len(result.Commits)))
	}
	output.PrintVersionChange(stderr, result.Baseline.Version.String(), result.Version.String())

	return writeVersionResult(cmd, result.Version, "GITCI_NEXT_VERSION")
}
