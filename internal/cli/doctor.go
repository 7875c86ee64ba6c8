package cli

import (
	"fmt"

	"github.com/ariel-frischer/gitci/internal/health"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the project is ready for versioning",
	Long: `Check the project setup gitci depends on:
- the git repository
- the release configuration
- the branch versions are computed for
- version tags

A project without version tags still passes; the next version then starts
from default-version.`,
	Example: `  gitci doctor
  gitci doctor --include-prerelease`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationRepo: repoNone},
	RunE:        runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd.Context())
	if err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	includePrerelease, _ := cmd.Flags().GetBool("include-prerelease")

	report := health.RunHealthChecks(health.Options{
		Dir:               s.root,
		ConfigPath:        configPath,
		IncludePrerelease: includePrerelease,
	}, s.log)

	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
	if !report.Passed {
		return NewExitError(ExitMissingDependencies)
	}
	return nil
}
