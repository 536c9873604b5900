// Package semver validates mod versions against declared version ranges.
//
// It is a thin wrapper around github.com/Masterminds/semver/v3 whose zero
// values mean "absent": a mod without a version, or a dependency reference
// without a range. Absence on either side never fails validation.
package semver

import (
	mm "github.com/Masterminds/semver/v3"

	errs "github.com/matzehuels/modstack/pkg/errors"
)

// Version is a semantic version. The zero value is an absent version.
type Version struct {
	v *mm.Version
}

// Constraint is a semantic version range. The zero value is an absent range.
//
// Examples:
// - ">=1.2.0 <2.0.0"
// - "^1.0.0"
// - "~1.4"
// - "=1.0.0"
type Constraint struct {
	c   *mm.Constraints
	raw string
}

// ParseVersion parses raw as a semantic version.
// Empty input yields the absent version without error.
func ParseVersion(raw string) (Version, error) {
	if raw == "" {
		return Version{}, nil
	}
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, errs.Wrap(errs.ErrCodeInvalidVersion, err, "parse version %q", raw)
	}
	return Version{v: v}, nil
}

// MustParseVersion is like [ParseVersion] but panics on error.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseConstraint parses raw as a version range.
// Empty input yields the absent range without error.
func ParseConstraint(raw string) (Constraint, error) {
	if raw == "" {
		return Constraint{}, nil
	}
	c, err := mm.NewConstraint(raw)
	if err != nil {
		return Constraint{}, errs.Wrap(errs.ErrCodeInvalidVersion, err, "parse range %q", raw)
	}
	return Constraint{c: c, raw: raw}, nil
}

// MustParseConstraint is like [ParseConstraint] but panics on error.
func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// IsZero reports whether the version is absent.
func (v Version) IsZero() bool { return v.v == nil }

// String returns the version as originally written, or "" when absent.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.Original()
}

// IsZero reports whether the range is absent.
func (c Constraint) IsZero() bool { return c.c == nil }

// String returns the range as originally written, or "" when absent.
func (c Constraint) String() string { return c.raw }

// Contains reports whether v lies inside the range.
// Both sides must be present; an absent side is never contained.
func (c Constraint) Contains(v Version) bool {
	if c.c == nil || v.v == nil {
		return false
	}
	return c.c.Check(v.v)
}

// Satisfies reports whether a dependency with version v may be used where
// range c is required. It returns true when either side is absent,
// otherwise whether c contains v.
func Satisfies(v Version, c Constraint) bool {
	if v.IsZero() || c.IsZero() {
		return true
	}
	return c.Contains(v)
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
//
// Absent versions sort before present ones.
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}
