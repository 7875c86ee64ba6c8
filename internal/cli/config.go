package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ariel-frischer/gitci/internal/config"
	clierrors "github.com/ariel-frischer/gitci/internal/errors"
	"github.com/ariel-frischer/gitci/internal/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the release configuration",
	Long: `Manage the gitci release configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (GITCI_*)
  2. Release config (.gitci/release-config.yml, or --config)
  3. Legacy JSON config (.gitci/release-config.json)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  gitci config show

  # Create .gitci/release-config.yml with defaults
  gitci config init

  # Convert a legacy JSON config to YAML
  gitci config migrate`,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the effective configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationRepo: repoOptional},
	RunE:        runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a release config with defaults",
	Long: `Create .gitci/release-config.yml in the repository root with the
default rules. An existing file is left unchanged unless --force is given.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationRepo: repoRootOnly},
	RunE:        runConfigInit,
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert the legacy JSON config to YAML",
	Long: `Convert .gitci/release-config.json to .gitci/release-config.yml.

The JSON file is kept as release-config.json.bak after a successful
migration. An existing YAML file is never overwritten.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationRepo: repoRootOnly},
	RunE:        runConfigMigrate,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config with defaults")
	configMigrateCmd.Flags().Bool("dry-run", false, "Show what would be migrated without writing")
	configCmd.AddCommand(configShowCmd, configInitCmd, configMigrateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd.Context())
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s.cfg)
	}

	dim := color.New(color.Faint).SprintFunc()
	source := string(s.cfg.Source)
	if s.cfg.Path != "" {
		source += " (" + s.cfg.Path + ")"
	}
	fmt.Fprintln(out, dim("# Configuration source: "+source))

	data, err := yaml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd.Context())
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	if force {
		if err := os.Remove(config.ProjectConfigPath(s.root)); err != nil && !os.IsNotExist(err) {
			return clierrors.FileNotWritable(config.ProjectConfigPath(s.root), err)
		}
	}

	path, wrote, err := config.WriteDefaultConfig(s.root)
	if err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	if !wrote {
		output.PrintStep(cmd.OutOrStdout(), fmt.Sprintf("Config already exists at %s (use --force to overwrite)", path))
		return nil
	}
	output.PrintSuccess(cmd.OutOrStdout(), "Created "+path)
	return nil
}

func runConfigMigrate(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd.Context())
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	result, err := config.MigrateProjectConfig(s.root, dryRun)
	if err != nil {
		return clierrors.ConfigParseError(config.LegacyProjectConfigPath(s.root), err)
	}
	if !result.Success {
		output.PrintStep(cmd.OutOrStdout(), result.Message)
		return nil
	}
	if err := config.RemoveLegacyConfig(result.SourcePath, dryRun); err != nil {
		return err
	}
	output.PrintSuccess(cmd.OutOrStdout(), result.Message)
	return nil
}
