package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/output"
	"github.com/ariel-frischer/gitci/internal/release"
	"github.com/spf13/cobra"
)

// commitRange is the commits of a branch since its latest version tag.
type commitRange struct {
	Branch  string
	Tag     *git.Tag
	Commits []git.Commit
}

// latestTagRange collects the commits of the --branch branch since the
// latest version tag, or the whole history when there is none.
func latestTagRange(cmd *cobra.Command, s *session, changedFiles bool) (commitRange, error) {
	branchFlag, _ := cmd.Flags().GetString("branch")
	includePrerelease, _ := cmd.Flags().GetBool("include-prerelease")

	tags, err := s.repo.Tags()
	if err != nil {
		return commitRange{}, err
	}

	var r commitRange
	if tag, _, ok := release.FindLatestTag(tags, includePrerelease); ok {
		r.Tag = &tag
	}

	r.Branch, err = release.ResolveBranch(s.repo, branchFlag)
	if err != nil {
		return commitRange{}, err
	}
	output.PrintStep(cmd.ErrOrStderr(), fmt.Sprintf("Current branch: %s", r.Branch))

	opts := git.RangeOptions{
		Branch:       r.Branch,
		Policy:       s.cfg.Policy(),
		ChangedFiles: changedFiles,
	}
	if r.Tag != nil {
		opts.From = r.Tag.Sha
	}
	r.Commits, err = s.repo.Commits(cmd.Context(), opts)
	if err != nil {
		return commitRange{}, fmt.Errorf("collecting commits: %w", err)
	}

	output.PrintStep(cmd.ErrOrStderr(), fmt.Sprintf("Found %d commits", len(r.Commits)))
	return r, nil
}

// resolveTargetPaths expands glob patterns against the directories directly
// under root and returns them as slash separated paths relative to root,
// e.g. "src/app". Patterns that match nothing are dropped. Order follows the
// patterns, and within a pattern the sorted matches.
func resolveTargetPaths(root string, patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("invalid target path %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			rel, err := filepath.Rel(root, m)
			if err != nil {
				return nil, fmt.Errorf("relative path of %s: %w", m, err)
			}
			rel = filepath.ToSlash(rel)
			if rel == "." || seen[rel] {
				continue
			}
			seen[rel] = true
			out = append(out, rel)
		}
	}
	return out, nil
}
