package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// IsGitHubActions reports whether the process runs in a GitHub Actions job.
func IsGitHubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") != ""
}

// ExportGitHubEnv appends vars to the file named by $GITHUB_ENV so later
// steps of the job see them. Empty values are skipped. It is a no-op when
// $GITHUB_ENV is unset.
func ExportGitHubEnv(vars map[string]string) error {
	path := os.Getenv("GITHUB_ENV")
	if path == "" {
		return nil
	}
	return appendEnvFile(path, vars)
}

// envFile is the part of *os.File the env appender needs.
type envFile interface {
	WriteString(s string) (int, error)
	Close() error
}

// openEnvFile is swapped in tests to simulate write and close failures.
var openEnvFile = func(name string, flag int, perm os.FileMode) (envFile, error) {
	return os.OpenFile(name, flag, perm)
}

// appendEnvFile writes NAME=value lines sorted by name. Values are written
// unquoted because the runner takes everything after '=' literally.
func appendEnvFile(path string, vars map[string]string) error {
	keys := make([]string, 0, len(vars))
	for k, v := range vars {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, vars[k])
	}

	f, err := openEnvFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
