package changelog

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ariel-frischer/gitci/internal/git"
)

// DefaultTemplate is used when no template is configured.
const DefaultTemplate = "## Changes\nContributors: $CONTRIBUTORS\n\n$CHANGES"

const (
	placeholderContributors = "$CONTRIBUTORS"
	placeholderChanges      = "$CHANGES"
)

// RenderInput is everything a release notes render depends on.
type RenderInput struct {
	// Commits is the whole range, newest first.
	Commits []git.Commit
	// Categories in declaration order. None renders one flat list.
	Categories []Category
	// Template with $CONTRIBUTORS and $CHANGES placeholders. Empty means
	// DefaultTemplate.
	Template string
	Provider LinkProvider
	// Partitions, when non-empty, repeat the change list once per
	// partition that has commits.
	Partitions []Partition
}

// WriteNotes renders release notes to w.
func WriteNotes(w io.Writer, in RenderInput) error {
	if _, err := io.WriteString(w, Render(in)); err != nil {
		return fmt.Errorf("writing release notes: %w", err)
	}
	return nil
}

// Render returns the release notes for a commit range. $CONTRIBUTORS lists
// each distinct author once, in order of first appearance across the whole
// range, even when the changes are partitioned.
func Render(in RenderInput) string {
	tmpl := in.Template
	if tmpl == "" {
		tmpl = DefaultTemplate
	}

	var changes string
	if len(in.Partitions) > 0 {
		changes = renderPartitions(in.Partitions, in.Categories, in.Provider)
	} else {
		changes = renderChanges(in.Commits, in.Categories, in.Provider)
	}

	r := strings.NewReplacer(
		placeholderContributors, renderContributors(in.Commits, in.Provider),
		placeholderChanges, changes,
	)
	return r.Replace(tmpl)
}

// Contributors returns the distinct authors of commits in order of first
// appearance. Authors are the same when both name and email match.
func Contributors(commits []git.Commit) []git.Author {
	seen := make(map[git.Author]bool)
	var out []git.Author
	for _, c := range commits {
		if seen[c.Author] {
			continue
		}
		seen[c.Author] = true
		out = append(out, c.Author)
	}
	return out
}

func renderContributors(commits []git.Commit, p LinkProvider) string {
	authors := Contributors(commits)
	links := make([]string, len(authors))
	for i, a := range authors {
		links[i] = p.Link(a.Name, a.Email)
	}
	return strings.Join(links, ", ")
}

// renderChanges writes one bullet per commit, grouped under a heading per
// non-empty bucket when categories are configured.
func renderChanges(commits []git.Commit, categories []Category, p LinkProvider) string {
	var b strings.Builder
	if len(categories) == 0 {
		writeBullets(&b, commits, p)
		return b.String()
	}

	first := true
	for _, bucket := range Categorize(commits, categories) {
		if len(bucket.Commits) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		b.WriteString("### " + bucket.Title + "\n")
		writeBullets(&b, bucket.Commits, p)
	}
	return b.String()
}

func writeBullets(b *strings.Builder, commits []git.Commit, p LinkProvider) {
	for _, c := range commits {
		fmt.Fprintf(b, "* %s %s (by %s)\n",
			c.Sha, strings.TrimSpace(c.ShortMessage), p.Link(c.Author.Name, c.Author.Email))
	}
}

// renderPartitions repeats the change list for each partition with commits,
// headed by the last element of its prefix.
func renderPartitions(partitions []Partition, categories []Category, p LinkProvider) string {
	var b strings.Builder
	for _, part := range partitions {
		if len(part.Commits) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if title := partitionTitle(part.Prefix); title != "" {
			fmt.Fprintf(&b, "## %s\n\n%s\n\n", title, part.Prefix)
		} else {
			fmt.Fprintf(&b, "## %s\n\n", part.Prefix)
		}
		b.WriteString(renderChanges(part.Commits, categories, p))
	}
	return b.String()
}

func partitionTitle(prefix string) string {
	trimmed := strings.TrimRight(prefix, "/")
	if trimmed == "" {
		return ""
	}
	if title := path.Base(trimmed); title != "." {
		return title
	}
	return ""
}
