// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSeriesNotFound indicates that a requested major.minor series has
// no release records in the catalog.
var ErrSeriesNotFound = errors.New("series not found in catalog")

// ErrReleaseNotFound indicates that a requested version has no release
// record in the catalog.
var ErrReleaseNotFound = errors.New("release not found in catalog")

// Catalog is an immutable, indexed collection of release records.
// It is created by the NewCatalog function which validates the given
// records and builds an explicit mapping from each series string to
// its releases, so the lookup-by-series queries do not depend on any
// dynamic name resolution.
// All queries are pure and synchronous functions of the catalog
// contents and an explicitly provided reference date, hence, a Catalog
// instance is safe for concurrent use.
type Catalog struct {
	// releases holds all records ordered by descending version.
	releases []Release

	// byVersion maps each canonical version string to its record.
	byVersion map[string]*Release

	// bySeries maps each series string, like "4.2", to the records of
	// that series ordered by descending version.
	bySeries map[string][]*Release
}

// NewCatalog validates the given release records and builds a Catalog
// instance indexing them. Records with duplicate versions are rejected
// with an error, so each version string identifies at most one record.
// The given slice is copied and kept sorted internally, hence, caller
// modifications of the slice do not affect the returned catalog.
func NewCatalog(releases []Release) (*Catalog, error) {
	c := &Catalog{
		releases:  make([]Release, len(releases)),
		byVersion: make(map[string]*Release, len(releases)),
		bySeries:  make(map[string][]*Release),
	}
	copy(c.releases, releases)
	sort.SliceStable(c.releases, func(i, j int) bool {
		return c.releases[j].Version.Less(c.releases[i].Version)
	})
	for i := range c.releases {
		r := &c.releases[i]
		v := r.Version.String()
		if _, dup := c.byVersion[v]; dup {
			return nil, fmt.Errorf("duplicate release version %q", v)
		}
		c.byVersion[v] = r
		s := r.Series()
		c.bySeries[s] = append(c.bySeries[s], r)
	}
	return c, nil
}

// Len returns the number of release records in the catalog.
func (c *Catalog) Len() int {
	return len(c.releases)
}

// Find returns the release record of the given version string.
// Malformed version strings are rejected with an error wrapping the
// ErrMalformedVersion and unknown versions are reported by an error
// wrapping the ErrReleaseNotFound.
func (c *Catalog) Find(version string) (*Release, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}
	r, ok := c.byVersion[v.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrReleaseNotFound, version)
	}
	return r, nil
}

// LatestMicro returns the release record with the greatest version in
// the given major.minor series, like "4.2". Malformed series strings
// are rejected with an error wrapping the ErrMalformedVersion and a
// series without any record is reported by an error wrapping the
// ErrSeriesNotFound.
func (c *Catalog) LatestMicro(series string) (*Release, error) {
	major, minor, err := ParseSeries(series)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%d.%d", major, minor)
	rs, ok := c.bySeries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSeriesNotFound, series)
	}
	return rs[0], nil
}

// Published lists the releases which were published and still
// supported at the given date, ordered by descending version.
// It is expected to contain the latest micro release of each
// supported series because publishing a micro release ends the life
// of its predecessor. Pre-1.0 releases are ignored.
func (c *Catalog) Published(at Date) []*Release {
	var rs []*Release
	for i := range c.releases {
		r := &c.releases[i]
		if r.Version.Major >= 1 && r.IsPublished(at) && r.IsSupported(at) {
			rs = append(rs, r)
		}
	}
	return rs
}

// Supported lists the published final releases at the given date,
// ordered by descending version.
func (c *Catalog) Supported(at Date) []*Release {
	var rs []*Release
	for _, r := range c.Published(at) {
		if !r.Version.IsPreRelease() {
			rs = append(rs, r)
		}
	}
	return rs
}

// Unsupported lists the final releases whose extended support ended
// at or before the given date, ordered by descending version. Only
// the latest known release of each series is reported and the series
// which are still supported (by a more recent micro release) are
// excluded. Pre-1.0 releases are ignored.
func (c *Catalog) Unsupported(at Date) []*Release {
	seen := make(map[string]struct{})
	for _, r := range c.Supported(at) {
		seen[r.Series()] = struct{}{}
	}
	var rs []*Release
	for i := range c.releases {
		r := &c.releases[i]
		switch {
		case r.Version.Major < 1 || r.Version.IsPreRelease():
			continue
		case r.EOLDate == nil || r.IsSupported(at):
			continue
		}
		if _, ok := seen[r.Series()]; ok {
			continue
		}
		seen[r.Series()] = struct{}{}
		rs = append(rs, r)
	}
	return rs
}

// Current returns the latest supported final release at the given
// date, or nil for an empty catalog.
func (c *Catalog) Current(at Date) *Release {
	if rs := c.Supported(at); len(rs) > 0 {
		return rs[0]
	}
	return nil
}

// Previous returns the latest supported final release belonging to a
// series older than the current release's series, or nil if no such
// release exists.
func (c *Catalog) Previous(at Date) *Release {
	rs := c.Supported(at)
	if len(rs) == 0 {
		return nil
	}
	series := rs[0].Series()
	for _, r := range rs[1:] {
		if r.Series() != series {
			return r
		}
	}
	return nil
}

// LTS lists the supported long-term support final releases at the
// given date, ordered by descending version.
func (c *Catalog) LTS(at Date) []*Release {
	var rs []*Release
	for _, r := range c.Supported(at) {
		if r.IsLTS {
			rs = append(rs, r)
		}
	}
	return rs
}

// CurrentLTS returns the latest supported long-term support release
// at the given date, or nil if no LTS series is supported.
func (c *Catalog) CurrentLTS(at Date) *Release {
	if rs := c.LTS(at); len(rs) > 0 {
		return rs[0]
	}
	return nil
}

// PreviousLTS returns the second latest supported long-term support
// release at the given date, or nil if at most one LTS series is
// supported. When two LTS series overlap, only the most recent one is
// surfaced by the classification and the older one is reachable by
// this query alone.
func (c *Catalog) PreviousLTS(at Date) *Release {
	if rs := c.LTS(at); len(rs) > 1 {
		return rs[1]
	}
	return nil
}

// Preview returns the published pre-release with the greatest version
// at the given date, but only while it is newer than the current
// final release. It returns nil if no preview package is available,
// which is a valid state rather than an error.
func (c *Catalog) Preview(at Date) *Release {
	var preview *Release
	for _, r := range c.Published(at) {
		if r.Version.IsPreRelease() {
			preview = r
			break
		}
	}
	if preview == nil {
		return nil
	}
	if cur := c.Current(at); cur != nil &&
		!cur.Version.Less(preview.Version) {
		return nil
	}
	return preview
}

// Classification partitions the catalog into the page-level release
// groups at a reference date. Absent groups are nil, which is a valid
// state (e.g., no preview release exists between two release cycles).
type Classification struct {
	// Current is the latest supported final release.
	Current *Release `json:"current,omitempty"`

	// Preview is the latest published pre-release, only while it is
	// newer than the current release.
	Preview *Release `json:"preview,omitempty"`

	// Previous is the latest supported final release of a series
	// older than the current one.
	Previous *Release `json:"previous,omitempty"`

	// LTS is the latest supported long-term support release, only
	// when it is distinct from the current and previous releases.
	// An older but still supported LTS series is not surfaced here.
	LTS *Release `json:"lts,omitempty"`

	// Unsupported lists the end-of-life series, one release each,
	// by descending version.
	Unsupported []*Release `json:"unsupported"`
}

// Classify computes the Classification of the catalog at the given
// date. It is a pure function of the catalog contents and the date,
// hence, identical inputs always produce identical classifications
// and no record may appear both in the Unsupported group and any of
// the supported groups.
func (c *Catalog) Classify(at Date) *Classification {
	cl := &Classification{
		Current:     c.Current(at),
		Preview:     c.Preview(at),
		Previous:    c.Previous(at),
		Unsupported: c.Unsupported(at),
	}
	if lts := c.CurrentLTS(at); lts != nil &&
		lts != cl.Current && lts != cl.Previous {
		cl.LTS = lts
	}
	return cl
}
