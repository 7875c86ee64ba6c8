package changelog

import (
	"strings"

	"github.com/ariel-frischer/gitci/internal/git"
)

// CatchAllTitle heads the bucket of commits no category matched.
const CatchAllTitle = "Changes"

// Category is a release notes section. A commit belongs to it when its
// message contains any of Commits. Labels are accepted for configuration
// compatibility and not matched.
type Category struct {
	Title   string
	Commits []string
	Labels  []string
}

func (c Category) matches(msg string) bool {
	for _, s := range c.Commits {
		if s != "" && strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Bucket holds the commits assigned to one section, in input order.
type Bucket struct {
	Title   string
	Commits []git.Commit
}

// Categorize assigns every commit to exactly one bucket: the first category
// it matches in declaration order, or the trailing catch-all. The result has
// one bucket per category followed by the catch-all, empty ones included.
func Categorize(commits []git.Commit, categories []Category) []Bucket {
	buckets := make([]Bucket, len(categories)+1)
	for i, c := range categories {
		buckets[i].Title = c.Title
	}
	buckets[len(categories)].Title = CatchAllTitle

	for _, commit := range commits {
		idx := len(categories)
		for i, c := range categories {
			if c.matches(commit.Message) {
				idx = i
				break
			}
		}
		buckets[idx].Commits = append(buckets[idx].Commits, commit)
	}
	return buckets
}
