package git

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fixture builds an in-memory repository commit by commit.
type fixture struct {
	t    *testing.T
	repo *git.Repository
	fs   billy.Filesystem
	wt   *git.Worktree
	when time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &fixture{
		t:    t,
		repo: repo,
		fs:   fs,
		wt:   wt,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) repository() *Repository {
	return New(f.repo, zerolog.Nop())
}

func (f *fixture) write(path, content string) {
	f.t.Helper()
	require.NoError(f.t, util.WriteFile(f.fs, path, []byte(content), 0o644))
	_, err := f.wt.Add(path)
	require.NoError(f.t, err)
}

func (f *fixture) remove(path string) {
	f.t.Helper()
	_, err := f.wt.Remove(path)
	require.NoError(f.t, err)
}

func (f *fixture) move(from, to string) {
	f.t.Helper()
	_, err := f.wt.Move(from, to)
	require.NoError(f.t, err)
}

// commit records a commit one minute after the previous one.
func (f *fixture) commit(msg string) plumbing.Hash {
	f.t.Helper()
	f.when = f.when.Add(time.Minute)
	return f.commitAt(msg, f.when, "Ann", "ann@x.com")
}

func (f *fixture) commitAt(msg string, when time.Time, name, email string, parents ...plumbing.Hash) plumbing.Hash {
	f.t.Helper()
	sig := &object.Signature{Name: name, Email: email, When: when}
	hash, err := f.wt.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(f.t, err)
	return hash
}

func (f *fixture) tag(name string, hash plumbing.Hash) {
	f.t.Helper()
	_, err := f.repo.CreateTag(name, hash, nil)
	require.NoError(f.t, err)
}

func (f *fixture) annotatedTag(name string, hash plumbing.Hash, msg string) {
	f.t.Helper()
	_, err := f.repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Rel", Email: "rel@x.com", When: f.when},
		Message: msg,
	})
	require.NoError(f.t, err)
}

func (f *fixture) checkout(branch string, create bool) {
	f.t.Helper()
	require.NoError(f.t, f.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
		Keep:   true,
	}))
}

func shas(commits []Commit) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.Sha
	}
	return out
}
