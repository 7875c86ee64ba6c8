package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the gitci CLI.
// These templates ensure consistent, actionable error messages.

// NoVersionTags creates an error when no tag in the repository is a version.
func NoVersionTags(includePrerelease bool) *CLIError {
	remediation := []string{
		"Tag a release first: git tag v1.0.0",
		"Or pass the baseline explicitly: gitci version next --current-version 1.0.0",
	}
	if !includePrerelease {
		remediation = append(remediation, "Prerelease tags are ignored unless --include-prerelease is set")
	}
	return NewPrerequisiteError("no version tags found", remediation...)
}

// TagNotSemVer creates an error for a tag whose name is not a version.
func TagNotSemVer(tag string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("tag %q is not a semantic version", tag),
		"Version tags look like 1.2.3 or v1.2.3-beta.1",
		"List tags with: git tag --list",
	)
}

// maxListedBranches caps the branches named in a remediation line.
const maxListedBranches = 10

// BranchNotFound creates an error when the requested branch does not exist.
// Known branches, when given, are listed in the remediation.
func BranchNotFound(name string, available []string) *CLIError {
	listing := "List local and remote branches with: git branch --all"
	if len(available) > 0 {
		shown := available
		if len(shown) > maxListedBranches {
			shown = shown[:maxListedBranches]
		}
		listing = "Available branches: " + strings.Join(shown, ", ")
		if more := len(available) - len(shown); more > 0 {
			listing += fmt.Sprintf(" (and %d more)", more)
		}
	}
	return NewArgumentError(
		fmt.Sprintf("branch not found: %s", name),
		listing,
		"Remote branches are named like origin/main",
		"Omit --branch to use the current branch",
	)
}

// InvalidVersion creates an error for a value that does not parse as a version.
func InvalidVersion(err error) *CLIError {
	return Wrap(err, Argument,
		"Versions follow MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD], e.g. 1.4.0-rc.1",
		"Prerelease and build identifiers use only [0-9A-Za-z-] separated by dots",
	)
}

// InvalidProvider creates an error for a link provider that cannot be used.
func InvalidProvider(provider string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("cannot use provider %q", provider),
		"Valid providers: default, github, gitlab",
		"GitLab links need the server url: --provider gitlab --server-url https://gitlab.example.com",
	)
}

// ConfigFileNotFound creates an error for missing config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Run 'gitci config init' to create default configuration",
		"Or check the path passed with --config",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config file: %s", path),
		"Check the file for YAML syntax errors",
		"Show the effective configuration with: gitci config show",
		"Reset to defaults with: gitci config init --force",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'gitci <command> --help' to see valid options",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("not a git repository: %s", path),
		"Initialize with: git init",
		"Or point gitci at a repository with --project <dir>",
	)
}
