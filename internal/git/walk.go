package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// walk flags
const (
	flagSeen uint8 = 1 << iota
	flagUninteresting
	flagEmitted
)

// Commits returns the commits of a branch, newest first.
//
// With an empty From the whole history reachable from the branch tip is
// returned. Otherwise the range depends on opts.Policy:
//
//   - PolicyTopological (default): commits reachable from the tip and not
//     reachable from From, plus From itself when the tip reaches it. This is
//     `git log From..tip` with the boundary included.
//   - PolicyCommitTime: commits whose committer time is at or after the
//     committer time of From.
//
// Both policies walk in committer-time order and stop as soon as the rest of
// the history can no longer belong to the range.
func (r *Repository) Commits(ctx context.Context, opts RangeOptions) ([]Commit, error) {
	tip, err := r.tip(opts.Branch)
	if err != nil {
		return nil, err
	}

	var raw []*object.Commit
	switch {
	case opts.From == "":
		raw, err = r.walkAll(ctx, tip)
	case opts.Policy == "" || opts.Policy == PolicyTopological:
		var boundary *object.Commit
		if boundary, err = r.lookupCommit(opts.From); err == nil {
			raw, err = r.walkExcluding(ctx, tip, boundary)
		}
	case opts.Policy == PolicyCommitTime:
		var boundary *object.Commit
		if boundary, err = r.lookupCommit(opts.From); err == nil {
			raw, err = r.walkSince(ctx, tip, boundary)
		}
	default:
		return nil, fmt.Errorf("unknown range policy %q", opts.Policy)
	}
	if err != nil {
		return nil, err
	}

	commits := make([]Commit, 0, len(raw))
	for _, c := range raw {
		commit := toCommit(c)
		if opts.ChangedFiles {
			files, err := r.changedFiles(ctx, c)
			if err != nil {
				return nil, err
			}
			commit.ChangedFiles = files
		}
		commits = append(commits, commit)
	}

	r.log.Debug().
		Str("branch", opts.Branch).
		Str("from", opts.From).
		Str("policy", string(opts.Policy)).
		Int("count", len(commits)).
		Msg("collected commit range")
	return commits, nil
}

// newCommitHeap returns a heap that pops the newest commit by committer time.
func newCommitHeap() *binaryheap.Heap {
	return binaryheap.NewWith(func(a, b interface{}) int {
		ta := a.(*object.Commit).Committer.When
		tb := b.(*object.Commit).Committer.When
		switch {
		case ta.Before(tb):
			return 1
		case ta.After(tb):
			return -1
		default:
			return 0
		}
	})
}

// walkAll collects the full history reachable from tip.
func (r *Repository) walkAll(ctx context.Context, tip *object.Commit) ([]*object.Commit, error) {
	return r.walkSince(ctx, tip, nil)
}

// walkSince collects commits reachable from tip. When boundary is non-nil the
// walk stops at the first commit older than the boundary's committer time.
func (r *Repository) walkSince(ctx context.Context, tip, boundary *object.Commit) ([]*object.Commit, error) {
	heap := newCommitHeap()
	seen := map[plumbing.Hash]bool{tip.Hash: true}
	heap.Push(tip)

	var out []*object.Commit
	for !heap.Empty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, _ := heap.Pop()
		c := v.(*object.Commit)

		if boundary != nil && c.Committer.When.Before(boundary.Committer.When) {
			break
		}
		out = append(out, c)

		parents, err := r.parentCommits(c)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			if !seen[p.Hash] {
				seen[p.Hash] = true
				heap.Push(p)
			}
		}
	}
	return out, nil
}

// walkExcluding collects commits reachable from tip but not from boundary,
// keeping boundary itself when tip reaches it. Both sides are walked at once
// in committer-time order and commits reachable from the boundary are marked
// uninteresting.
//
// While every parent seen is strictly older than its child, the walk can end
// as soon as only uninteresting commits remain queued. Once a parent is seen
// that is not older (clock skew, or equal timestamps), an emitted commit may
// still be reachable from the boundary through a path not walked yet, so the
// uninteresting side is drained until every emitted commit is accounted for
// or the queue is empty. Emitted commits marked uninteresting later are
// dropped from the result.
func (r *Repository) walkExcluding(ctx context.Context, tip, boundary *object.Commit) ([]*object.Commit, error) {
	flags := map[plumbing.Hash]uint8{}
	heap := newCommitHeap()

	flags[boundary.Hash] = flagSeen | flagUninteresting
	heap.Push(boundary)
	if tip.Hash != boundary.Hash {
		flags[tip.Hash] = flagSeen
		heap.Push(tip)
	}
	reached := tip.Hash == boundary.Hash

	var (
		order   []*object.Commit
		skewed  bool
		pending int // emitted commits not known to be uninteresting
	)
	for !heap.Empty() {
		if onlyUninteresting(heap, flags) && (!skewed || pending == 0) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, _ := heap.Pop()
		c := v.(*object.Commit)
		uninteresting := flags[c.Hash]&flagUninteresting != 0
		if !uninteresting {
			order = append(order, c)
			flags[c.Hash] |= flagEmitted
			pending++
		}

		parents, err := r.parentCommits(c)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			if !p.Committer.When.Before(c.Committer.When) {
				skewed = true
			}
			if p.Hash == boundary.Hash && !uninteresting {
				reached = true
			}
			f, known := flags[p.Hash]
			switch {
			case !known:
				flags[p.Hash] = flagSeen | boolFlag(uninteresting, flagUninteresting)
				heap.Push(p)
			case uninteresting && f&flagUninteresting == 0:
				// Already queued or emitted as interesting; re-queue so the
				// mark propagates to its ancestors.
				flags[p.Hash] = f | flagUninteresting
				if f&flagEmitted != 0 {
					pending--
				}
				heap.Push(p)
			}
		}
	}

	out := make([]*object.Commit, 0, len(order)+1)
	for _, c := range order {
		if flags[c.Hash]&flagUninteresting == 0 {
			out = append(out, c)
		}
	}
	if reached {
		out = append(out, boundary)
	}
	return out, nil
}

func onlyUninteresting(heap *binaryheap.Heap, flags map[plumbing.Hash]uint8) bool {
	for _, v := range heap.Values() {
		if flags[v.(*object.Commit).Hash]&flagUninteresting == 0 {
			return false
		}
	}
	return true
}

func boolFlag(set bool, f uint8) uint8 {
	if set {
		return f
	}
	return 0
}

func toCommit(c *object.Commit) Commit {
	return Commit{
		Sha:          c.Hash.String(),
		Message:      c.Message,
		ShortMessage: shortMessage(c.Message),
		Date:         c.Committer.When,
		Author: Author{
			Name:  c.Author.Name,
			Email: c.Author.Email,
		},
	}
}

// shortMessage returns the first line of a commit message.
func shortMessage(msg string) string {
	line, _, _ := strings.Cut(strings.TrimLeft(msg, "\r\n"), "\n")
	return strings.TrimRight(line, "\r")
}
