package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/gitci/internal/semver"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    Format
		wantErr bool
	}{
		"empty":  {in: "", want: FormatText},
		"text":   {in: "text", want: FormatText},
		"json":   {in: "JSON", want: FormatJSON},
		"dotenv": {in: "dotenv", want: FormatDotenv},
		"yaml":   {in: "yaml", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	v := semver.MustParse("1.3.0-beta.1+abcdef12")

	text, err := FormatVersion(v, FormatText, "")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0-beta.1+abcdef12", text)

	js, err := FormatVersion(v, FormatJSON, "")
	require.NoError(t, err)
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(js), &info))
	assert.Equal(t, float64(1), info["Major"])
	assert.Equal(t, float64(3), info["Minor"])
	assert.Equal(t, "beta.1", info["Prerelease"])
	assert.Equal(t, "abcdef12", info["Build"])
	assert.Equal(t, "1.3.0-beta.1+abcdef12", info["FullSemVersion"])
	assert.Equal(t, "1.3.0-beta.1", info["ShortVersion"])

	env, err := FormatVersion(v, FormatDotenv, "NEXT_VERSION")
	require.NoError(t, err)
	vars, err := godotenv.Unmarshal(env)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"NEXT_VERSION":            "1.3.0-beta.1+abcdef12",
		"NEXT_VERSION_MINI":       "1.3.0-beta.1",
		"NEXT_VERSION_SHORT":      "1.3.0-beta.1",
		"NEXT_VERSION_MAJOR":      "1",
		"NEXT_VERSION_MINOR":      "3",
		"NEXT_VERSION_PATCH":      "0",
		"NEXT_VERSION_PRERELEASE": "beta.1",
		"NEXT_VERSION_BUILD":      "abcdef12",
	}, vars)
}

func TestExportGitHubEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_env")
	require.NoError(t, os.WriteFile(path, []byte("EXISTING=1\n"), 0o644))
	t.Setenv("GITHUB_ENV", path)

	vars := VersionVars("GITCI_NEXT_VERSION", semver.MustParse("2.0.0"))
	require.NoError(t, ExportGitHubEnv(vars))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"EXISTING=1\n"+
			"GITCI_NEXT_VERSION=2.0.0\n"+
			"GITCI_NEXT_VERSION_MAJOR=2\n"+
			"GITCI_NEXT_VERSION_MINI=2.0.0\n"+
			"GITCI_NEXT_VERSION_MINOR=0\n"+
			"GITCI_NEXT_VERSION_PATCH=0\n"+
			"GITCI_NEXT_VERSION_SHORT=2.0.0\n",
		string(data), "empty prerelease and build are skipped")
}

func TestExportGitHubEnv_NoFile(t *testing.T) {
	t.Setenv("GITHUB_ENV", "")
	assert.NoError(t, ExportGitHubEnv(map[string]string{"A": "b"}))
}

func TestCIDetection(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, IsGitHubActions())

	t.Setenv("GITHUB_ACTIONS", "")
	assert.False(t, IsGitHubActions())
}

// failingEnvFile records writes and fails on close.
type failingEnvFile struct {
	written  strings.Builder
	closeErr error
	closed   bool
}

func (f *failingEnvFile) WriteString(s string) (int, error) { return f.written.WriteString(s) }

func (f *failingEnvFile) Close() error {
	f.closed = true
	return f.closeErr
}

func TestAppendEnvFile_CloseError(t *testing.T) {
	fake := &failingEnvFile{closeErr: errors.New("disk full")}
	orig := openEnvFile
	openEnvFile = func(string, int, os.FileMode) (envFile, error) { return fake, nil }
	t.Cleanup(func() { openEnvFile = orig })

	err := appendEnvFile("github_env", map[string]string{"A": "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing github_env")
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, fake.closed)
	assert.Equal(t, "A=1\n", fake.written.String())
}

func TestPrintHelpers(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintStep(&buf, "Current branch: main")
	PrintSuccess(&buf, "Release notes generated")
	PrintVersion(&buf, "Current version", "1.2.0")
	PrintVersionChange(&buf, "1.2.0", "1.3.0")

	assert.Equal(t,
		"→ Current branch: main\n"+
			"✓ Release notes generated\n"+
			"Current version: 1.2.0\n"+
			"Version change: 1.2.0 → 1.3.0\n",
		buf.String())

	buf.Reset()
	PrintSeparator(&buf, "notes")
	assert.Contains(t, buf.String(), " notes ")
	assert.Contains(t, buf.String(), "───")
}
