// Package changelog renders release notes from a commit range.
//
// This package implements:
//   - Category classification of commits by message substrings
//   - Partitioning of commits by changed-file path prefix
//   - Template based markdown rendering with a contributor list
//   - Contributor profile links for GitHub and self-hosted GitLab
//   - Changed-file reports grouped by path
//
// Rendering is a pure function of its input; nothing here reads the
// repository or the configuration file.
package changelog
