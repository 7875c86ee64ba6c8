// Package git provides read-only repository access for gitci: tag listing,
// branch detection, and commit range queries with per-commit changed files.
// It uses the go-git library and never shells out to the git CLI. Nothing in
// this package writes to the repository.
package git

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
)

// ErrNotRepository is returned when no repository is found at or above a path.
var ErrNotRepository = errors.New("no git repository found")

// ErrCommitNotFound is returned when a range boundary sha does not resolve
// to a commit in the repository.
var ErrCommitNotFound = errors.New("commit not found")

// BranchNotFoundError reports a branch name that has no local or
// remote-tracking reference. Available lists the branches that do exist
// when the caller looked them up.
type BranchNotFoundError struct {
	Name      string
	Available []string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("the branch '%s' not found", e.Name)
}

// Repository wraps a go-git repository with the queries gitci needs.
type Repository struct {
	repo *git.Repository
	root string
	log  zerolog.Logger
}

// Open opens the repository at path or the closest parent directory that
// contains one. If path is empty, the current working directory is used.
func Open(path string, log zerolog.Logger) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	log.Debug().Str("path", path).Msg("opening repository")

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w at or above %q", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	r := New(repo, log)
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}

	log.Debug().Str("root", r.root).Msg("repository opened")
	return r, nil
}

// New wraps an already opened go-git repository. Root is left empty for
// bare or in-memory repositories.
func New(repo *git.Repository, log zerolog.Logger) *Repository {
	return &Repository{repo: repo, log: log}
}

// Root returns the absolute path of the working tree, or "" if unknown.
func (r *Repository) Root() string {
	return r.root
}

// Tags returns every tag in the repository resolved to its target commit.
// The message is the annotated tag message when present, otherwise the
// message of the tagged commit. Tags that do not point at a commit are skipped.
func (r *Repository) Tags() ([]Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tag, ok, err := r.resolveTag(ref)
		if err != nil {
			return err
		}
		if ok {
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	r.log.Debug().Int("count", len(tags)).Msg("listed tags")
	return tags, nil
}

// resolveTag peels a tag reference to its commit.
func (r *Repository) resolveTag(ref *plumbing.Reference) (Tag, bool, error) {
	name := ref.Name().Short()

	annotated, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := annotated.Commit()
		if err != nil {
			r.log.Debug().Str("tag", name).Err(err).Msg("skipping tag without commit target")
			return Tag{}, false, nil
		}
		return Tag{Name: name, Sha: commit.Hash.String(), Message: annotated.Message}, true, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		commit, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			r.log.Debug().Str("tag", name).Err(err).Msg("skipping tag without commit target")
			return Tag{}, false, nil
		}
		return Tag{Name: name, Sha: commit.Hash.String(), Message: commit.Message}, true, nil
	default:
		return Tag{}, false, fmt.Errorf("reading tag %s: %w", name, err)
	}
}

// CurrentBranch returns the branch HEAD points at.
// Returns an empty name in detached HEAD state.
func (r *Repository) CurrentBranch() (Branch, error) {
	head, err := r.repo.Head()
	if err != nil {
		return Branch{}, fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		r.log.Debug().Msg("detached HEAD state")
		return Branch{Sha: head.Hash().String()}, nil
	}

	return Branch{Name: head.Name().Short(), Sha: head.Hash().String()}, nil
}

// HeadCommit returns the sha of the commit HEAD points at.
func (r *Repository) HeadCommit() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return head.Hash().String(), nil
}

// Branches returns local and remote-tracking branches sorted by name.
// Remote-tracking branches keep their remote prefix ("origin/main").
func (r *Repository) Branches() ([]Branch, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		if !name.IsBranch() && !name.IsRemote() {
			return nil
		}
		if ref.Type() != plumbing.HashReference || strings.HasSuffix(name.Short(), "HEAD") {
			return nil
		}
		branches = append(branches, Branch{Name: name.Short(), Sha: ref.Hash().String()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})
	return branches, nil
}

// BranchExists reports whether name is a local branch or a remote-tracking
// branch such as "origin/main". A reference store that cannot be read is an
// error, not a missing branch.
func (r *Repository) BranchExists(name string) (bool, error) {
	_, err := r.branchRef(name)
	var notFound *BranchNotFoundError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &notFound):
		return false, nil
	default:
		return false, err
	}
}

// branchRef resolves a branch name, preferring the local branch.
func (r *Repository) branchRef(name string) (*plumbing.Reference, error) {
	if name == "" {
		return nil, &BranchNotFoundError{Name: name}
	}

	candidates := []plumbing.ReferenceName{plumbing.NewBranchReferenceName(name)}
	if remote, branch, ok := strings.Cut(name, "/"); ok {
		candidates = append(candidates, plumbing.NewRemoteReferenceName(remote, branch))
	}

	for _, refName := range candidates {
		ref, err := r.repo.Reference(refName, true)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("checking branch existence: %w", err)
		}
	}
	return nil, &BranchNotFoundError{Name: name}
}

// tip resolves the commit a range walk starts from.
func (r *Repository) tip(branch string) (*object.Commit, error) {
	var hash plumbing.Hash
	if branch == "" {
		head, err := r.repo.Head()
		if err != nil {
			return nil, fmt.Errorf("getting HEAD reference: %w", err)
		}
		hash = head.Hash()
	} else {
		ref, err := r.branchRef(branch)
		if err != nil {
			return nil, err
		}
		hash = ref.Hash()
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("reading tip commit %s: %w", hash, err)
	}
	return commit, nil
}

// lookupCommit resolves a full or abbreviated sha to a commit.
func (r *Repository) lookupCommit(sha string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(sha))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, sha)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, sha)
		}
		return nil, fmt.Errorf("reading commit %s: %w", sha, err)
	}
	return commit, nil
}

// parentCommits loads parents, treating objects missing from a shallow
// clone as roots.
func (r *Repository) parentCommits(c *object.Commit) ([]*object.Commit, error) {
	parents := make([]*object.Commit, 0, len(c.ParentHashes))
	for _, h := range c.ParentHashes {
		p, err := r.repo.CommitObject(h)
		if err != nil {
			if errors.Is(err, plumbing.ErrObjectNotFound) {
				r.log.Debug().Str("commit", c.Hash.String()).Str("parent", h.String()).Msg("parent missing, treating as root")
				continue
			}
			return nil, fmt.Errorf("reading parent %s of %s: %w", h, c.Hash, err)
		}
		parents = append(parents, p)
	}
	return parents, nil
}
