// Package semver implements the semantic version value type used by gitci:
// parsing, SemVer 2.0.0 precedence, and bump arithmetic. Every operation
// returns a new Version; values are never modified in place.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidVersionFormat is matched by every ParseError via errors.Is.
var ErrInvalidVersionFormat = errors.New("invalid version format")

// semverPattern follows the grammar from semver.org, including the
// no-leading-zero rules for numeric parts and numeric prerelease identifiers.
var semverPattern = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
	`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// identifierPattern validates a single dot-separated prerelease/build identifier.
var identifierPattern = regexp.MustCompile(`^[0-9a-zA-Z-]+$`)

// ParseError reports text that does not conform to semantic version grammar.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid version format %q: %s", e.Text, e.Reason)
	}
	return fmt.Sprintf("invalid version format %q", e.Text)
}

// Is makes errors.Is(err, ErrInvalidVersionFormat) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidVersionFormat
}

// Version is a MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] semantic version.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

// New returns a version without prerelease or build metadata.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse parses strict semantic version text. A leading "v" is not accepted
// here; use ParseTag for tag names.
func Parse(text string) (Version, error) {
	m := semverPattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, &ParseError{Text: text, Reason: "expected MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]"}
	}

	nums := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, &ParseError{Text: text, Reason: "numeric component out of range"}
		}
		nums[i] = n
	}

	return Version{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		Prerelease: m[4],
		Build:      m[5],
	}, nil
}

// MustParse is Parse that panics on error. Only for constants and tests.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseTag parses a tag name as a version by skipping every leading
// non-digit character ("v1.2.3", "release-1.2.3"). The second return value
// is false when the tag is not a version tag.
func ParseTag(name string) (Version, bool) {
	idx := strings.IndexFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	if idx < 0 {
		return Version{}, false
	}
	v, err := Parse(name[idx:])
	if err != nil {
		return Version{}, false
	}
	return v, true
}

// String formats the full version including build metadata.
func (v Version) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(v.Major))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Minor))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Patch))
	if v.Prerelease != "" {
		sb.WriteByte('-')
		sb.WriteString(v.Prerelease)
	}
	if v.Build != "" {
		sb.WriteByte('+')
		sb.WriteString(v.Build)
	}
	return sb.String()
}

// Short returns the version with build metadata stripped.
func (v Version) Short() Version {
	v.Build = ""
	return v
}

// IsPrerelease reports whether the version carries a prerelease label.
func (v Version) IsPrerelease() bool {
	return v.Prerelease != ""
}

// WithPrerelease returns a copy with the prerelease replaced; empty clears it.
func (v Version) WithPrerelease(prerelease string) (Version, error) {
	if err := validateIdentifiers(prerelease, true); err != nil {
		return Version{}, &ParseError{Text: prerelease, Reason: "prerelease " + err.Error()}
	}
	v.Prerelease = prerelease
	return v, nil
}

// WithBuild returns a copy with the build metadata replaced; empty clears it.
func (v Version) WithBuild(build string) (Version, error) {
	if err := validateIdentifiers(build, false); err != nil {
		return Version{}, &ParseError{Text: build, Reason: "build " + err.Error()}
	}
	v.Build = build
	return v, nil
}

// Equal reports whether two versions share the same identity:
// major.minor.patch and prerelease. Build metadata is ignored.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// Less reports whether v has lower precedence than o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Compare returns -1, 0 or +1 following SemVer 2.0.0 precedence.
// Build metadata does not take part in the comparison.
func (v Version) Compare(o Version) int {
	if c := compareInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, o.Patch); c != 0 {
		return c
	}
	return comparePrerelease(v.Prerelease, o.Prerelease)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePrerelease orders prerelease labels. A version without a prerelease
// sorts after any version with one.
func comparePrerelease(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}

	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareIdentifier(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(as), len(bs))
}

func compareIdentifier(a, b string) int {
	an, aNum := numericIdentifier(a)
	bn, bNum := numericIdentifier(b)
	switch {
	case aNum && bNum:
		return compareInt(an, bn)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func numericIdentifier(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func validateIdentifiers(s string, prerelease bool) error {
	if s == "" {
		return nil
	}
	for _, id := range strings.Split(s, ".") {
		if !identifierPattern.MatchString(id) {
			return fmt.Errorf("identifier %q must be non-empty [0-9A-Za-z-]", id)
		}
		if prerelease && len(id) > 1 && id[0] == '0' {
			if _, ok := numericIdentifier(id); ok {
				return fmt.Errorf("numeric identifier %q has a leading zero", id)
			}
		}
	}
	return nil
}
