// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Status specifies the maturity stage of a release and accepts the
// alpha, beta, release candidate, and final stages. Although this enum
// is numeric, it is (de)serialized as a string for readability in the
// adapter layer. The numeric values are ordered so that a pre-release
// always sorts before the final release of the same version numbers.
type Status int

// Valid values for the Status enum.
const (
	StatusInvalid Status = iota // zero value is invalid

	StatusAlpha // first testing package of an upcoming release
	StatusBeta  // feature-frozen testing package
	StatusRC    // release candidate
	StatusFinal // generally available release
)

// ErrUnknownStatus indicates that a given string may not be parsed
// as a valid/known release status. This error encodes a description
// err string and does not communicate the invalid status string itself
// because the caller of ParseStatus already knows about it.
var ErrUnknownStatus = errors.New("unknown release status")

// StatusError indicates an invalid release status. This error contains
// the invalid status as an integer, so functions which find out about
// an invalid status during their execution (and not by their arguments)
// can report it.
type StatusError int

// Error implements the error interface, returning a string
// representation of the StatusError.
func (e StatusError) Error() string {
	return fmt.Sprintf("invalid release status: %d", int(e))
}

// Validate returns nil if Status value is valid. For invalid values,
// an instance of the StatusError will be returned.
func (s Status) Validate() error {
	switch s {
	case StatusAlpha, StatusBeta, StatusRC, StatusFinal:
		return nil
	default:
		return StatusError(s)
	}
}

// String converts the Status enum to a human readable string.
// Invalid status causes a panic.
func (s Status) String() string {
	switch s {
	case StatusAlpha:
		return "alpha"
	case StatusBeta:
		return "beta"
	case StatusRC:
		return "rc"
	case StatusFinal:
		return "final"
	default:
		panic(StatusError(s))
	}
}

// Code converts the Status enum to its single-letter code, as used
// in version strings and the database status column. The historical
// "c" code is used for release candidates, so status codes preserve
// the alphabetical a < b < c < f ordering. Invalid status causes a
// panic.
func (s Status) Code() string {
	switch s {
	case StatusAlpha:
		return "a"
	case StatusBeta:
		return "b"
	case StatusRC:
		return "c"
	case StatusFinal:
		return "f"
	default:
		panic(StatusError(s))
	}
}

// ParseStatus parses the given string and returns a Status. Both the
// human readable names (e.g., "alpha") and the single-letter codes
// (e.g., "a") are accepted, beside the "rc" abbreviation.
// For invalid strings, StatusInvalid and ErrUnknownStatus will be
// returned.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "a", "alpha":
		return StatusAlpha, nil
	case "b", "beta":
		return StatusBeta, nil
	case "c", "rc":
		return StatusRC, nil
	case "f", "final":
		return StatusFinal, nil
	default:
		return StatusInvalid, ErrUnknownStatus
	}
}

// Version represents a released version, consisting of the major,
// minor, and micro numeric components, the release status, and the
// pre-release iteration number. The major and minor components form
// a series (also known as a feature version) like "4.2", while the
// micro component counts the patch-level releases within that series.
// Pre-releases (alpha, beta, and release candidate packages) carry a
// non-zero iteration number, like "4.2a1" or "4.2rc2", and always
// precede the final release of the same numeric components.
//
// Versions are totally ordered by the (major, minor, micro, status,
// iteration) tuple where all comparisons are numeric, hence, "4.10"
// sorts after "4.9" despite their lexicographic ordering.
type Version struct {
	Major     uint   // backward-incompatible changes
	Minor     uint   // feature additions within a major series
	Micro     uint   // patch-level fixes within a series
	Status    Status // alpha, beta, rc, or final
	Iteration uint   // pre-release sequence number, zero for finals
}

// ErrMalformedVersion indicates that a given string may not be parsed
// as a dotted version string. No partial parsing is attempted, so a
// version string with any non-numeric or unknown component is rejected
// as a whole.
var ErrMalformedVersion = errors.New("malformed version string")

// versionPattern accepts version strings such as "4.2", "4.2.3",
// "5.0a1", "5.0b2", "5.0rc1", and the historical "5.0c1" form.
var versionPattern = regexp.MustCompile(
	`^([0-9]+)\.([0-9]+)(?:\.([0-9]+))?(?:(a|b|c|rc)([0-9]+))?$`,
)

// ParseVersion parses a dotted version string and returns its Version
// representation. The micro component may be omitted, defaulting to
// zero, and a pre-release suffix such as a1, b2, or rc1 may follow the
// numeric components. Dash and underscore separator characters are
// ignored, so "4.2-rc1" and "4.2rc1" are parsed identically.
// Malformed strings are rejected with an error wrapping the
// ErrMalformedVersion, leaving no partially parsed result.
func ParseVersion(version string) (v Version, err error) {
	stripped := make([]byte, 0, len(version))
	for i := 0; i < len(version); i++ {
		if c := version[i]; c != '-' && c != '_' {
			stripped = append(stripped, c)
		}
	}
	m := versionPattern.FindSubmatch(stripped)
	if m == nil {
		return v, fmt.Errorf("%w: %q", ErrMalformedVersion, version)
	}
	if v.Major, err = parseComponent(m[1]); err == nil {
		v.Minor, err = parseComponent(m[2])
	}
	if err == nil && len(m[3]) > 0 {
		v.Micro, err = parseComponent(m[3])
	}
	v.Status = StatusFinal
	if err == nil && len(m[4]) > 0 {
		v.Status, _ = ParseStatus(string(m[4]))
		v.Iteration, err = parseComponent(m[5])
	}
	if err != nil {
		return Version{}, fmt.Errorf(
			"%w: %q: %v", ErrMalformedVersion, version, err,
		)
	}
	return v, nil
}

// parseComponent converts an all-digits byte slice, as matched by the
// versionPattern, into its numeric value. Components which overflow
// 32 bits are rejected.
func parseComponent(digits []byte) (uint, error) {
	n, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("component %q: %w", digits, err)
	}
	return uint(n), nil
}

// ParseSeries parses a series string, such as "4.2", consisting of
// exactly the dot-separated major and minor numeric components.
// Malformed strings are rejected with an error wrapping the
// ErrMalformedVersion.
func ParseSeries(series string) (major, minor uint, err error) {
	v, err := ParseVersion(series)
	if err != nil {
		return 0, 0, err
	}
	if v.Micro != 0 || v.Status != StatusFinal {
		return 0, 0, fmt.Errorf(
			"%w: %q is not a major.minor series", ErrMalformedVersion,
			series,
		)
	}
	return v.Major, v.Minor, nil
}

// Compare returns -1, 0, or 1 when v orders before, equal to, or
// after the o version respectively. Comparison is numeric on the
// (major, minor, micro, status, iteration) tuple, so pre-releases
// precede their final release and "4.10" follows "4.9".
func (v Version) Compare(o Version) int {
	for _, c := range [...]int{
		int(v.Major) - int(o.Major),
		int(v.Minor) - int(o.Minor),
		int(v.Micro) - int(o.Micro),
		int(v.Status) - int(o.Status),
		int(v.Iteration) - int(o.Iteration),
	} {
		switch {
		case c < 0:
			return -1
		case c > 0:
			return 1
		}
	}
	return 0
}

// Less reports if v orders strictly before the o version.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Series returns the major.minor series string of this version,
// like "4.2". All micro releases and pre-releases of one series
// report the same series string.
func (v Version) Series() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// StableBranch returns the name of the stable git branch which
// maintains this version's series, like "stable/4.2.x".
func (v Version) StableBranch() string {
	return fmt.Sprintf("stable/%s.x", v.Series())
}

// CommitPrefix returns the commit message prefix for backports to
// this version's series, like "[4.2.x]".
func (v Version) CommitPrefix() string {
	return fmt.Sprintf("[%s.x]", v.Series())
}

// IsPreRelease reports if this version is an alpha, beta, or release
// candidate version.
func (v Version) IsPreRelease() bool {
	return v.Status != StatusFinal
}

// IsDotZero reports if this version is the first final release of its
// series, like "4.2".
func (v Version) IsDotZero() bool {
	return v.Status == StatusFinal && v.Micro == 0
}

// String returns the canonical string representation of the version.
// The micro component is omitted when zero and pre-release versions
// take an a/b/rc suffix with their iteration number, e.g., "4.2",
// "4.2.3", and "5.0rc1". This representation round-trips through
// ParseVersion.
func (v Version) String() string {
	main := fmt.Sprintf("%d.%d", v.Major, v.Minor)
	if v.Micro != 0 {
		main = fmt.Sprintf("%s.%d", main, v.Micro)
	}
	if v.Status == StatusFinal {
		return main
	}
	sub := map[Status]string{
		StatusAlpha: "a",
		StatusBeta:  "b",
		StatusRC:    "rc",
	}[v.Status]
	return fmt.Sprintf("%s%s%d", main, sub, v.Iteration)
}

// MarshalText implements encoding.TextMarshaler interface and
// serializes `v` version as its canonical string representation.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText deserializes text byte slice as a dotted version
// string and fills the `v` Version instance. In case of errors, v will
// be left unchanged.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
