// Package semver tests version parsing, precedence, and bump arithmetic.
// Related: internal/semver/semver.go, internal/semver/bump.go
// Tags: semver, version, parse, compare, bump

package semver

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Version
		wantErr bool
	}{
		"plain":              {input: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3}},
		"zeros":              {input: "0.0.0", want: Version{}},
		"prerelease":         {input: "1.0.0-rc.1", want: Version{Major: 1, Prerelease: "rc.1"}},
		"build":              {input: "1.0.0+027dfeea", want: Version{Major: 1, Build: "027dfeea"}},
		"prerelease + build": {input: "1.0.5-rc+027dfeea", want: Version{Major: 1, Patch: 5, Prerelease: "rc", Build: "027dfeea"}},
		"hyphenated ids":     {input: "2.1.0-alpha-beta.x-1", want: Version{Major: 2, Minor: 1, Prerelease: "alpha-beta.x-1"}},
		"v prefix":           {input: "v1.2.3", wantErr: true},
		"missing patch":      {input: "1.2", wantErr: true},
		"leading zero":       {input: "01.2.3", wantErr: true},
		"leading zero pre":   {input: "1.2.3-01", wantErr: true},
		"empty prerelease":   {input: "1.2.3-", wantErr: true},
		"empty identifier":   {input: "1.2.3-rc..1", wantErr: true},
		"empty":              {input: "", wantErr: true},
		"garbage":            {input: "latest", wantErr: true},
		"overflow":           {input: "99999999999999999999.0.0", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidVersionFormat))
				var pe *ParseError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, tt.input, pe.Text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"0.0.1", "1.2.3", "1.0.0-alpha", "1.0.0-alpha.1+build.5", "10.20.30+meta-data"} {
		v, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())

		again, err := Parse(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, again)
	}
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		tag    string
		want   string
		wantOK bool
	}{
		"v prefix":        {tag: "v1.2.0", want: "1.2.0", wantOK: true},
		"word prefix":     {tag: "release-2.0.0-rc.1", want: "2.0.0-rc.1", wantOK: true},
		"bare":            {tag: "3.1.4", want: "3.1.4", wantOK: true},
		"no digits":       {tag: "latest", wantOK: false},
		"unparsable rest": {tag: "build-42", wantOK: false},
		"empty":           {tag: "", wantOK: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseTag(tt.tag)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestCompare_Precedence(t *testing.T) {
	t.Parallel()

	// Ordered lowest to highest, from semver.org section 11.
	ordered := []string{
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
		"1.0.1",
		"1.1.0",
		"2.0.0",
	}

	for i := 0; i < len(ordered)-1; i++ {
		lo := MustParse(ordered[i])
		hi := MustParse(ordered[i+1])
		assert.Equal(t, -1, lo.Compare(hi), "%s < %s", lo, hi)
		assert.Equal(t, 1, hi.Compare(lo), "%s > %s", hi, lo)
		assert.True(t, lo.Less(hi))
	}
}

func TestEqual_IgnoresBuild(t *testing.T) {
	t.Parallel()

	assert.True(t, MustParse("1.2.3+a").Equal(MustParse("1.2.3+b")))
	assert.True(t, MustParse("1.2.3-rc.1+a").Equal(MustParse("1.2.3-rc.1")))
	assert.False(t, MustParse("1.2.3-rc.1").Equal(MustParse("1.2.3")))
}

func TestBump(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		from  string
		level Level
		want  string
	}{
		"major resets minor and patch": {from: "1.2.3", level: LevelMajor, want: "2.0.0"},
		"minor resets patch":           {from: "1.2.3", level: LevelMinor, want: "1.3.0"},
		"patch":                        {from: "1.2.3", level: LevelPatch, want: "1.2.4"},
		"none":                         {from: "1.2.3", level: LevelNone, want: "1.2.3"},
		"keeps metadata":               {from: "1.2.3-rc+abc", level: LevelPatch, want: "1.2.4-rc+abc"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := MustParse(tt.from).Bump(tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBump_Properties(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"0.0.0", "0.9.9", "1.2.3", "7.0.12-beta.1"} {
		v := MustParse(s)
		for _, level := range []Level{LevelMajor, LevelMinor, LevelPatch, LevelNone} {
			bumped, err := v.Bump(level)
			require.NoError(t, err)
			again, err := bumped.Bump(LevelNone)
			require.NoError(t, err)
			assert.Equal(t, bumped, again, "none after %s is a no-op", level)
		}
		major, err := v.Bump(LevelMajor)
		require.NoError(t, err)
		assert.Equal(t, 0, major.Minor)
		assert.Equal(t, 0, major.Patch)
	}
}

func TestBump_DoesNotMutate(t *testing.T) {
	t.Parallel()

	v := MustParse("1.2.3")
	_, _ = v.Bump(LevelMajor)
	assert.Equal(t, "1.2.3", v.String())
}

func TestBump_Overflow(t *testing.T) {
	t.Parallel()

	maxInt := strconv.Itoa(math.MaxInt)
	tests := map[string]struct {
		from  string
		level Level
		want  string
	}{
		"major": {from: maxInt + ".0.0", level: LevelMajor},
		"minor": {from: "1." + maxInt + ".0", level: LevelMinor},
		"patch": {from: "1.2." + maxInt, level: LevelPatch},
		"major with max minor": {from: "1." + maxInt + "." + maxInt, level: LevelMajor, want: "2.0.0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v := MustParse(tt.from)
			got, err := v.Bump(tt.level)
			if tt.want != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.String())
				return
			}
			require.ErrorIs(t, err, ErrVersionOverflow)
			assert.Equal(t, v, got, "the input is returned unchanged")
			assert.GreaterOrEqual(t, got.Major, 0)
		})
	}
}

func TestWithPrereleaseAndBuild(t *testing.T) {
	t.Parallel()

	v := MustParse("1.2.3-rc.1+abc")

	cleared, err := v.WithPrerelease("")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3+abc", cleared.String())

	replaced, err := v.WithBuild("def")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-rc.1+def", replaced.String())

	noBuild, err := v.WithBuild("")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-rc.1", noBuild.String())
	assert.Equal(t, noBuild, v.Short())

	_, err = v.WithPrerelease("rc..1")
	assert.ErrorIs(t, err, ErrInvalidVersionFormat)

	_, err = v.WithBuild("bad/build")
	assert.ErrorIs(t, err, ErrInvalidVersionFormat)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Level
		wantErr bool
	}{
		"major":      {input: "major", want: LevelMajor},
		"mixed case": {input: "Minor", want: LevelMinor},
		"patch":      {input: " patch ", want: LevelPatch},
		"none":       {input: "none", want: LevelNone},
		"empty":      {input: "", want: LevelNone},
		"unknown":    {input: "huge", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
