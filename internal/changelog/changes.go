package changelog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/gitci/internal/git"
)

// FileGroup lists the files changed under one path prefix.
type FileGroup struct {
	Name  string
	Files []git.ChangedFile
}

// GroupChangedFiles collects the changed files of every commit. With no
// prefixes all files go into a single group named CatchAllTitle; otherwise
// there is one group per prefix holding the files whose path starts with it.
// Files keep commit order, newest first.
func GroupChangedFiles(commits []git.Commit, prefixes []string) []FileGroup {
	if len(prefixes) == 0 {
		g := FileGroup{Name: CatchAllTitle, Files: []git.ChangedFile{}}
		for _, c := range commits {
			g.Files = append(g.Files, c.ChangedFiles...)
		}
		return []FileGroup{g}
	}

	byPrefix := PartitionMap(commits, prefixes)
	groups := make([]FileGroup, 0, len(prefixes))
	for _, prefix := range prefixes {
		g := FileGroup{Name: prefix, Files: []git.ChangedFile{}}
		for _, c := range byPrefix[prefix] {
			for _, f := range c.ChangedFiles {
				if strings.HasPrefix(f.Path, prefix) {
					g.Files = append(g.Files, f)
				}
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// WriteChangesMarkdown writes each group as a heading followed by one
// "- <status> <path>" line per file.
func WriteChangesMarkdown(w io.Writer, groups []FileGroup) error {
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "## %s\n", g.Name); err != nil {
			return err
		}
		for _, f := range g.Files {
			if _, err := fmt.Fprintf(w, "- %s %s\n", f.Status, f.Path); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteChangesJSON writes the groups as a JSON object keyed by group name.
func WriteChangesJSON(w io.Writer, groups []FileGroup) error {
	m := make(map[string][]git.ChangedFile, len(groups))
	for _, g := range groups {
		m[g.Name] = g.Files
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding changes: %w", err)
	}
	return nil
}
