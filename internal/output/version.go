package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ariel-frischer/gitci/internal/semver"
	"github.com/joho/godotenv"
)

// Format selects how a version result is written.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatDotenv Format = "dotenv"
)

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatDotenv:
		return FormatDotenv, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json or dotenv)", s)
	}
}

// VersionInfo is the JSON shape of a version result.
type VersionInfo struct {
	Major          int
	Minor          int
	Patch          int
	Prerelease     string
	Build          string
	FullSemVersion string
	VersionInfo    string
	ShortVersion   string
}

// NewVersionInfo describes v.
func NewVersionInfo(v semver.Version) VersionInfo {
	return VersionInfo{
		Major:          v.Major,
		Minor:          v.Minor,
		Patch:          v.Patch,
		Prerelease:     v.Prerelease,
		Build:          v.Build,
		FullSemVersion: v.String(),
		VersionInfo:    v.String(),
		ShortVersion:   v.Short().String(),
	}
}

// VersionVars returns the variables describing v under name:
// NAME, NAME_MINI, NAME_SHORT, NAME_MAJOR, NAME_MINOR, NAME_PATCH,
// NAME_PRERELEASE and NAME_BUILD.
func VersionVars(name string, v semver.Version) map[string]string {
	short := v.Short().String()
	return map[string]string{
		name:                 v.String(),
		name + "_MINI":       short,
		name + "_SHORT":      short,
		name + "_MAJOR":      strconv.Itoa(v.Major),
		name + "_MINOR":      strconv.Itoa(v.Minor),
		name + "_PATCH":      strconv.Itoa(v.Patch),
		name + "_PRERELEASE": v.Prerelease,
		name + "_BUILD":      v.Build,
	}
}

// FormatVersion renders v in the given format. dotenvName names the
// variables of the dotenv format.
func FormatVersion(v semver.Version, format Format, dotenvName string) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.Marshal(NewVersionInfo(v))
		if err != nil {
			return "", fmt.Errorf("encoding version: %w", err)
		}
		return string(data), nil
	case FormatDotenv:
		out, err := godotenv.Marshal(VersionVars(dotenvName, v))
		if err != nil {
			return "", fmt.Errorf("encoding dotenv: %w", err)
		}
		return out, nil
	default:
		return v.String(), nil
	}
}
