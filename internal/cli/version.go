package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ariel-frischer/gitci/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current and next project versions",
	Long: `Commands for reading the project version from git tags.

Without a subcommand, prints the build information of gitci itself.`,
	Example: `  # Version of the latest tag
  gitci version current

  # Next version from commits since the latest tag
  gitci version next

  # gitci build information
  gitci version --plain`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationRepo: repoNone},
	RunE:        runBuildInfo,
}

func init() {
	versionCmd.GroupID = GroupVersioning
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
	versionCmd.Flags().Bool("json", false, "Output build information as JSON")
	rootCmd.AddCommand(versionCmd)
}

func runBuildInfo(cmd *cobra.Command, _ []string) error {
	plain, _ := cmd.Flags().GetBool("plain")
	asJSON, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()
	info := build.Current()
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case plain:
		printPlainBuildInfo(out, info)
	default:
		printPrettyBuildInfo(out, info)
	}
	return nil
}

func buildInfoLine() string {
	info := build.Current()
	return fmt.Sprintf("gitci %s (commit %s, built %s)", info.Version, truncateCommit(info.Commit), info.BuildDate)
}

// printPlainBuildInfo prints a simple version output for scripting
func printPlainBuildInfo(out io.Writer, info build.Info) {
	fmt.Fprintf(out, "gitci %s\n", info.Version)
	fmt.Fprintf(out, "commit: %s\n", info.Commit)
	fmt.Fprintf(out, "built: %s\n", info.BuildDate)
	fmt.Fprintf(out, "go: %s\n", info.GoVersion)
	fmt.Fprintf(out, "platform: %s\n", info.Platform)
}

func printPrettyBuildInfo(out io.Writer, info build.Info) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintln(out, cyan("gitci"))
	rows := []struct {
		label string
		value string
	}{
		{"Version", info.Version},
		{"Commit", truncateCommit(info.Commit)},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	}
	for _, row := range rows {
		fmt.Fprintf(out, "  %s  %s\n", yellow(fmt.Sprintf("%-8s", row.label)), white(row.value))
	}
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
