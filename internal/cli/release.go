package cli

import (
	"strings"

	"github.com/ariel-frischer/gitci/internal/changelog"
	clierrors "github.com/ariel-frischer/gitci/internal/errors"
	"github.com/ariel-frischer/gitci/internal/output"
	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Generate release notes",
	Long:  `Commands for turning the commits since the latest tag into release notes.`,
}

var releaseChangesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Generate release notes from commit logs",
	Long: `Generate release notes for the commits since the latest version tag.

Commits are grouped by the categories of the release config, first match
wins, with unmatched commits under "Changes". The template's $CONTRIBUTORS
placeholder lists each author once and $CHANGES the grouped commits.

--provider turns contributor names into profile links: github links to
https://github.com/<name>, gitlab links to <server-url>/<name>.

--target-paths repeats the change list for each matching top-level directory,
listing only the commits that touched it.`,
	Example: `  # Print release notes
  gitci release changes

  # Release notes with GitHub profile links, written to a file
  gitci release changes --provider github -o RELEASE_NOTES.md

  # GitLab links
  gitci release changes --provider gitlab --server-url https://gitlab.example.com

  # One section per service directory
  gitci release changes --target-paths 'services-*'`,
	Args: cobra.NoArgs,
	RunE: runReleaseChanges,
}

func init() {
	releaseCmd.GroupID = GroupRelease
	addReleaseChangesFlags(releaseChangesCmd)
	releaseCmd.AddCommand(releaseChangesCmd)
	rootCmd.AddCommand(releaseCmd)
}

func addReleaseChangesFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Contributor link provider: default, github or gitlab")
	cmd.Flags().String("server-url", "", "Server url for the gitlab provider")
	cmd.Flags().StringP("output", "o", "", "Write the notes to a file instead of stdout")
	cmd.Flags().StringSlice("target-paths", nil, "Glob patterns of top-level directories to group changes by")
}

func runReleaseChanges(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd.Context())
	if err != nil {
		return err
	}

	providerName, _ := cmd.Flags().GetString("provider")
	serverURL, _ := cmd.Flags().GetString("server-url")
	outPath, _ := cmd.Flags().GetString("output")
	patterns, _ := cmd.Flags().GetStringSlice("target-paths")

	provider, err := changelog.NewLinkProvider(providerName, serverURL)
	if err != nil {
		return clierrors.InvalidProvider(providerName, err)
	}

	prefixes, err := resolveTargetPaths(s.root, patterns)
	if err != nil {
		return clierrors.NewArgumentError(err.Error(), "Target paths are glob patterns such as 'src' or 'services-*'")
	}

	r, err := latestTagRange(cmd, s, len(prefixes) > 0)
	if err != nil {
		return err
	}

	in := changelog.RenderInput{
		Commits:    r.Commits,
		Categories: s.cfg.ReleaseCategories(),
		Template:   s.cfg.Template,
		Provider:   provider,
	}
	if len(prefixes) > 0 {
		in.Partitions = changelog.PartitionCommits(r.Commits, prefixes)
	}

	var b strings.Builder
	if err := changelog.WriteNotes(&b, in); err != nil {
		return err
	}
	if err := writeText(cmd, outPath, b.String()); err != nil {
		return err
	}
	output.PrintSuccess(cmd.ErrOrStderr(), "Release notes generated")
	return nil
}
