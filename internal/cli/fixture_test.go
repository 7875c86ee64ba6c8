package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ariel-frischer/gitci/internal/config"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// project is an on-disk repository for command tests.
type project struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	when time.Time
}

func newProject(t *testing.T) *project {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &project{
		t:    t,
		dir:  dir,
		repo: repo,
		wt:   wt,
		when: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// withDefaultConfig writes the default release config into the project.
func (p *project) withDefaultConfig() *project {
	p.t.Helper()
	_, _, err := config.WriteDefaultConfig(p.dir)
	require.NoError(p.t, err)
	return p
}

func (p *project) write(path, content string) {
	p.t.Helper()
	full := filepath.Join(p.dir, filepath.FromSlash(path))
	require.NoError(p.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(p.t, os.WriteFile(full, []byte(content), 0o644))
	_, err := p.wt.Add(path)
	require.NoError(p.t, err)
}

func (p *project) commit(msg, author string) plumbing.Hash {
	p.t.Helper()
	p.when = p.when.Add(time.Hour)
	sig := &object.Signature{Name: author, Email: author + "@example.com", When: p.when}
	hash, err := p.wt.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	require.NoError(p.t, err)
	return hash
}

func (p *project) tag(name string, hash plumbing.Hash) {
	p.t.Helper()
	_, err := p.repo.CreateTag(name, hash, nil)
	require.NoError(p.t, err)
}

// session opens the project the way the pre-run hook does.
func (p *project) session(mode string) *session {
	p.t.Helper()
	s, err := openSession(mode, p.dir, "", zerolog.Nop())
	require.NoError(p.t, err)
	return s
}

// newTestCommand builds an isolated command with the global flags a
// subcommand inherits from the root.
func newTestCommand(run func(*cobra.Command, []string) error, addFlags ...func(*cobra.Command)) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "test",
		RunE:          run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.Flags().String("branch", "", "")
	cmd.Flags().Bool("include-prerelease", false, "")
	for _, add := range addFlags {
		add(cmd)
	}
	return cmd
}

// execute runs cmd with s in its context and returns stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, s *session, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(withSession(context.Background(), s))
	return stdout.String(), stderr.String(), err
}

func resultFlags(name string) func(*cobra.Command) {
	return func(cmd *cobra.Command) {
		addResultFlags(cmd, name)
	}
}
