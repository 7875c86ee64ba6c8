package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// changedFiles diffs a commit against its first parent (or the empty tree
// for a root commit) with rename detection enabled.
func (r *Repository) changedFiles(ctx context.Context, c *object.Commit) ([]ChangedFile, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", c.Hash, err)
	}

	parentTree := &object.Tree{}
	parents, err := r.parentCommits(c)
	if err != nil {
		return nil, err
	}
	if len(parents) > 0 {
		parentTree, err = parents[0].Tree()
		if err != nil {
			return nil, fmt.Errorf("reading tree of %s: %w", parents[0].Hash, err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing %s: %w", c.Hash, err)
	}

	files := make([]ChangedFile, 0, len(changes))
	for _, change := range changes {
		file, err := toChangedFile(change)
		if err != nil {
			return nil, fmt.Errorf("classifying change in %s: %w", c.Hash, err)
		}
		files = append(files, file)
	}
	return files, nil
}

func toChangedFile(change *object.Change) (ChangedFile, error) {
	from, to := change.From.Name, change.To.Name
	if from != "" && to != "" && from != to {
		return ChangedFile{Path: to, Status: StatusRenamed}, nil
	}

	action, err := change.Action()
	if err != nil {
		return ChangedFile{}, err
	}
	switch action {
	case merkletrie.Insert:
		return ChangedFile{Path: to, Status: StatusAdded}, nil
	case merkletrie.Delete:
		return ChangedFile{Path: from, Status: StatusDeleted}, nil
	default:
		return ChangedFile{Path: to, Status: StatusModified}, nil
	}
}
