package cli

import (
	"fmt"
	"os"
	"strings"

	clierrors "github.com/ariel-frischer/gitci/internal/errors"
	"github.com/ariel-frischer/gitci/internal/output"
	"github.com/ariel-frischer/gitci/internal/semver"
	"github.com/spf13/cobra"
)

// addResultFlags registers the flags shared by commands that print a version.
func addResultFlags(cmd *cobra.Command, defaultVarName string) {
	cmd.Flags().String("format", string(output.FormatText), "Output format: text, json or dotenv")
	cmd.Flags().StringP("output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().String("dotenv-var-name", defaultVarName, "Variable name prefix for dotenv output")
}

// writeVersionResult renders v per the result flags of cmd and exports it to
// GitHub Actions under githubVar.
func writeVersionResult(cmd *cobra.Command, v semver.Version, githubVar string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")
	varName, _ := cmd.Flags().GetString("dotenv-var-name")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return clierrors.NewArgumentError(err.Error(), "Use --format text, --format json or --format dotenv")
	}

	text, err := output.FormatVersion(v, format, varName)
	if err != nil {
		return err
	}
	if err := writeText(cmd, outPath, text); err != nil {
		return err
	}

	if output.IsGitHubActions() {
		if err := output.ExportGitHubEnv(output.VersionVars(githubVar, v)); err != nil {
			return fmt.Errorf("exporting to GitHub Actions: %w", err)
		}
	}
	return nil
}

// writeText writes text to path, or to the command's stdout when path is
// empty. A trailing newline is added when missing.
func writeText(cmd *cobra.Command, path, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	output.PrintStep(cmd.ErrOrStderr(), fmt.Sprintf("The result has been written to file '%s'", path))
	return nil
}
