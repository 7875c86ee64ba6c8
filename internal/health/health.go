// Package health provides project health checks for gitci. It validates that
// the repository, release configuration and version tags are usable, returning
// structured reports used by the 'gitci doctor' command.
package health

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/gitci/internal/config"
	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/release"
	"github.com/rs/zerolog"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks report missing pieces gitci can work without, such
	// as version tags. They never fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed && !c.Optional {
		r.Passed = false
	}
}

// Options selects the project to check.
type Options struct {
	// Dir is the project directory; the repository is discovered upward.
	Dir string
	// ConfigPath overrides the release config file.
	ConfigPath        string
	IncludePrerelease bool
}

// RunHealthChecks runs all health checks and returns a report. Checks that
// depend on the repository are skipped when it cannot be opened.
func RunHealthChecks(opts Options, log zerolog.Logger) *HealthReport {
	report := &HealthReport{Checks: make([]CheckResult, 0, 4), Passed: true}

	repo, repoCheck := CheckRepository(opts.Dir, log)
	report.add(repoCheck)

	root := opts.Dir
	if repo != nil && repo.Root() != "" {
		root = repo.Root()
	}
	report.add(CheckConfig(root, opts.ConfigPath))

	if repo == nil {
		return report
	}
	report.add(CheckBranch(repo))
	report.add(CheckVersionTags(repo, opts.IncludePrerelease))
	return report
}

// CheckRepository opens the git repository at or above dir.
func CheckRepository(dir string, log zerolog.Logger) (*git.Repository, CheckResult) {
	repo, err := git.Open(dir, log)
	if err != nil {
		return nil, CheckResult{
			Name:    "Git repository",
			Passed:  false,
			Message: err.Error(),
		}
	}
	return repo, CheckResult{
		Name:    "Git repository",
		Passed:  true,
		Message: "found at " + repo.Root(),
	}
}

// CheckConfig loads and validates the release configuration under root.
func CheckConfig(root, configPath string) CheckResult {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:   root,
		ConfigPath:   configPath,
		SkipWarnings: true,
	})
	if err != nil {
		return CheckResult{
			Name:    "Release config",
			Passed:  false,
			Message: err.Error(),
		}
	}

	msg := fmt.Sprintf("valid (%s", cfg.Source)
	if cfg.Path != "" {
		msg += ": " + cfg.Path
	}
	msg += ")"
	if cfg.Source == config.SourceLegacy {
		msg += ", run 'gitci config migrate' to convert it to YAML"
	}
	return CheckResult{Name: "Release config", Passed: true, Message: msg}
}

// CheckBranch reports the branch gitci resolves by default.
func CheckBranch(repo release.Repository) CheckResult {
	name, err := release.ResolveBranch(repo, "")
	if err != nil {
		return CheckResult{
			Name:    "Current branch",
			Passed:  false,
			Message: err.Error(),
		}
	}
	return CheckResult{Name: "Current branch", Passed: true, Message: name}
}

// CheckVersionTags reports how many tags parse as versions and which one is
// the latest. Having none is fine: the default version is used instead.
func CheckVersionTags(repo release.Repository, includePrerelease bool) CheckResult {
	tags, err := repo.Tags()
	if err != nil {
		return CheckResult{
			Name:    "Version tags",
			Passed:  false,
			Message: err.Error(),
		}
	}

	candidates := release.ListVersionTags(tags, includePrerelease)
	if len(candidates) == 0 {
		return CheckResult{
			Name:     "Version tags",
			Passed:   false,
			Optional: true,
			Message:  "none found, the next version starts from default-version",
		}
	}

	msg := fmt.Sprintf("%d found, latest %s", len(candidates), candidates[0].Tag.Name)
	if skipped := len(tags) - len(candidates); skipped > 0 {
		msg += fmt.Sprintf(" (%d other tags ignored)", skipped)
	}
	return CheckResult{Name: "Version tags", Passed: true, Message: msg}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&b, "✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			fmt.Fprintf(&b, "○ %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&b, "✗ %s: %s\n", check.Name, check.Message)
		}
	}
	return b.String()
}
