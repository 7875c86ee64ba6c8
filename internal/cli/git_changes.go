package cli

import (
	"strings"

	"github.com/ariel-frischer/gitci/internal/changelog"
	clierrors "github.com/ariel-frischer/gitci/internal/errors"
	"github.com/spf13/cobra"
)

var gitCmd = &cobra.Command{
	Use:   "git",
	Short: "Inspect git history",
	Long:  `Commands for inspecting the commit history since the latest tag.`,
}

var gitChangesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List files changed since the latest tag",
	Long: `List the files changed by the commits since the latest version tag.

Without --target-paths every changed file is listed under "Changes". With
--target-paths there is one group per matching top-level directory.`,
	Example: `  # Markdown list of changed files
  gitci git changes

  # JSON, grouped by service directory
  gitci git changes --target-paths 'services-*' --format json -o changes.json`,
	Args: cobra.NoArgs,
	RunE: runGitChanges,
}

func init() {
	gitCmd.GroupID = GroupRelease
	addGitChangesFlags(gitChangesCmd)
	gitCmd.AddCommand(gitChangesCmd)
	rootCmd.AddCommand(gitCmd)
}

func addGitChangesFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("target-paths", nil, "Glob patterns of top-level directories to group files by")
	cmd.Flags().String("format", "markdown", "Output format: markdown or json")
	cmd.Flags().StringP("output", "o", "", "Write the result to a file instead of stdout")
}

func runGitChanges(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd.Context())
	if err != nil {
		return err
	}

	patterns, _ := cmd.Flags().GetStringSlice("target-paths")
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")

	format = strings.ToLower(format)
	if format != "markdown" && format != "json" {
		return clierrors.NewArgumentError("unknown format "+format, "Use --format markdown or --format json")
	}

	prefixes, err := resolveTargetPaths(s.root, patterns)
	if err != nil {
		return clierrors.NewArgumentError(err.Error(), "Target paths are glob patterns such as 'src' or 'services-*'")
	}

	r, err := latestTagRange(cmd, s, true)
	if err != nil {
		return err
	}

	groups := changelog.GroupChangedFiles(r.Commits, prefixes)
	var b strings.Builder
	if format == "json" {
		err = changelog.WriteChangesJSON(&b, groups)
	} else {
		err = changelog.WriteChangesMarkdown(&b, groups)
	}
	if err != nil {
		return err
	}
	return writeText(cmd, outPath, b.String())
}
