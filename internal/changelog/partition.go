package changelog

import (
	"strings"

	"github.com/ariel-frischer/gitci/internal/git"
)

// Partition is the set of commits that touched paths under one prefix.
type Partition struct {
	Prefix  string
	Commits []git.Commit
}

// PartitionCommits groups commits by changed-file path prefix, one
// partition per prefix in the given order. Matching is a plain string
// prefix test, so "src" also matches "src-utils/file". A commit lands in
// every partition it matches and empty partitions are kept.
func PartitionCommits(commits []git.Commit, prefixes []string) []Partition {
	out := make([]Partition, 0, len(prefixes))
	for _, prefix := range prefixes {
		p := Partition{Prefix: prefix, Commits: []git.Commit{}}
		for _, c := range commits {
			if touches(c, prefix) {
				p.Commits = append(p.Commits, c)
			}
		}
		out = append(out, p)
	}
	return out
}

// PartitionMap is PartitionCommits keyed by prefix.
func PartitionMap(commits []git.Commit, prefixes []string) map[string][]git.Commit {
	m := make(map[string][]git.Commit, len(prefixes))
	for _, p := range PartitionCommits(commits, prefixes) {
		m[p.Prefix] = p.Commits
	}
	return m
}

func touches(c git.Commit, prefix string) bool {
	for _, f := range c.ChangedFiles {
		if strings.HasPrefix(f.Path, prefix) {
			return true
		}
	}
	return false
}
