package readiness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a parsed backend CLI version.
type Version struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the first major.minor[.patch] triple from a version
// probe's output (e.g. "1.0.35 (Claude Code)" or "v2.1").
func ParseVersion(s string) (*Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("no version number in %q", strings.TrimSpace(s))
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("parsing major version %q: %w", m[1], err)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("parsing minor version %q: %w", m[2], err)
	}
	patch := 0
	if m[3] != "" {
		if patch, err = strconv.Atoi(m[3]); err != nil {
			return nil, fmt.Errorf("parsing patch version %q: %w", m[3], err)
		}
	}

	return &Version{Major: major, Minor: minor, Patch: patch, Raw: strings.TrimSpace(s)}, nil
}

// String returns "MAJOR.MINOR.PATCH".
func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v >= other.
func (v *Version) AtLeast(other *Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor > other.Minor
	}
	return v.Patch >= other.Patch
}

// Compatible applies the version policy: an empty minimum accepts every
// version (the historical behavior, kept as an explicit policy choice), and
// an unparseable probe output is accepted rather than blocking readiness.
func Compatible(probeOutput, minimum string) bool {
	if minimum == "" {
		return true
	}
	min, err := ParseVersion(minimum)
	if err != nil {
		return true
	}
	got, err := ParseVersion(probeOutput)
	if err != nil {
		return true
	}
	return got.AtLeast(min)
}
