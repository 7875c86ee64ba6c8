package cli

import (
	"errors"

	clierrors "github.com/ariel-frischer/gitci/internal/errors"
	"github.com/ariel-frischer/gitci/internal/output"
	"github.com/ariel-frischer/gitci/internal/release"
	"github.com/spf13/cobra"
)

var versionCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the version of the latest tag",
	Long: `Show the version of the latest version tag.

Tags are read as versions after skipping leading non-digits, so v1.2.3 and
release-1.2.3 both count. Prerelease tags are ignored unless
--include-prerelease is set.

Inside GitHub Actions the version is also exported to $GITHUB_ENV as
GITCI_CURRENT_VERSION and GITCI_CURRENT_VERSION_* variables.

Exit codes:
  0 - Version found
  4 - No git repository or no version tags`,
	Example: `  # Print the current version
  gitci version current

  # JSON with all version parts
  gitci version current --format json

  # dotenv file for later CI steps
  gitci version current --format dotenv -o version.env`,
	Args: cobra.NoArgs,
	RunE: runVersionCurrent,
}

func init() {
	addResultFlags(versionCurrentCmd, "CURRENT_VERSION")
	versionCmd.AddCommand(versionCurrentCmd)
}

func runVersionCurrent(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd.Context())
	if err != nil {
		return err
	}
	includePrerelease, _ := cmd.Flags().GetBool("include-prerelease")

	current, err := release.CurrentVersion(s.repo, includePrerelease, s.log)
	if err != nil {
		if errors.Is(err, release.ErrNoTagsFound) {
			return clierrors.NoVersionTags(includePrerelease)
		}
		return err
	}

	output.PrintVersion(cmd.ErrOrStderr(), "Current version", current.Version.String())
	return writeVersionResult(cmd, current.Version, "GITCI_CURRENT_VERSION")
}
