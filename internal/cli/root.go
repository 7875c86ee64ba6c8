// Package cli implements the gitci command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/gitci/internal/build"
	clierrors "github.com/ariel-frischer/gitci/internal/errors"
	"github.com/ariel-frischer/gitci/internal/output"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupVersioning    = "versioning"
	GroupRelease       = "release"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "gitci",
	Short: "Semantic versions and release notes from git history",
	Long: `gitci computes the next semantic version of a project from its git tags
and commit messages, and renders categorized release notes for the same
commit range. It reads the repository, never writes to it.

Release rules are read from .gitci/release-config.yml in the repository root
and can be overridden with GITCI_* environment variables.`,
	Example: `  # Show the version of the latest tag
  gitci version current

  # Compute the next version for CI as dotenv
  gitci version next --format dotenv -o version.env

  # Render release notes with GitHub profile links
  gitci release changes --provider github -o RELEASE_NOTES.md`,
	Version:           build.Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: prepareSession,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupVersioning, Title: "Versioning:"},
		&cobra.Group{ID: GroupRelease, Title: "Release Notes:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.SetVersionTemplate(buildInfoLine() + "\n")

	rootCmd.PersistentFlags().String("project", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().String("branch", "", "Branch to inspect (default: current branch)")
	rootCmd.PersistentFlags().Bool("include-prerelease", false, "Consider prerelease tags when finding the latest version")
	rootCmd.PersistentFlags().String("config", "", "Release config file (default: .gitci/release-config.yml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress details")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

// Execute runs the root command and prints any error with remediation.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	cliErr := clierrors.Translate(err)
	clierrors.FprintError(rootCmd.ErrOrStderr(), cliErr)
	if output.IsGitHubActions() {
		fmt.Fprint(rootCmd.OutOrStdout(), clierrors.FormatAnnotation(cliErr))
	}
	return cliErr
}
