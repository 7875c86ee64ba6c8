package git

import (
	"fmt"
	"time"
)

// Tag is a tag reference resolved to the commit it points at.
type Tag struct {
	Name    string
	Sha     string
	Message string
}

func (t Tag) String() string {
	return fmt.Sprintf("%s => %s", t.Name, t.Sha)
}

// Branch is a branch name with the hash of its tip commit.
type Branch struct {
	Name string
	Sha  string
}

func (b Branch) String() string {
	return fmt.Sprintf("%s => %s", b.Name, b.Sha)
}

// Author identifies a commit author. Two authors are the same contributor
// when both name and email match.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s[%s]", a.Name, a.Email)
}

// FileStatus is the kind of change a commit made to a path.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
)

// ChangedFile is one path touched by a commit, relative to the repository root
// and always slash separated. For deletions Path is the removed path; for
// renames it is the new path.
type ChangedFile struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
}

// Commit is an immutable snapshot of a commit. ChangedFiles is populated only
// when requested through RangeOptions.ChangedFiles.
type Commit struct {
	Sha          string
	Message      string
	ShortMessage string
	Date         time.Time
	Author       Author
	ChangedFiles []ChangedFile
}

func (c Commit) String() string {
	return fmt.Sprintf("%s %s %s %s", c.Sha, c.ShortMessage, c.Date.Format(time.RFC3339), c.Author)
}

// RangePolicy selects how a commit range is bounded by a starting commit.
type RangePolicy string

const (
	// PolicyTopological keeps commits reachable from the branch tip that are
	// not reachable from the boundary commit, plus the boundary itself.
	PolicyTopological RangePolicy = "topological"
	// PolicyCommitTime keeps commits whose committer time is at or after the
	// boundary commit's committer time.
	PolicyCommitTime RangePolicy = "commit-time"
)

// RangeOptions bounds a commit range query.
type RangeOptions struct {
	// Branch names the branch whose tip starts the walk. Empty means HEAD.
	Branch string
	// From is the sha of the boundary commit. Empty means the whole history.
	From string
	// Policy decides how From bounds the range. Empty means PolicyTopological.
	Policy RangePolicy
	// ChangedFiles requests the per-commit changed file list.
	ChangedFiles bool
}
