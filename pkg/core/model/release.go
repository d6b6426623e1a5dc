// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// The central entities are the Release records and the Catalog which
// indexes them and answers the classification queries, such as finding
// the current, previous, and long-term support releases at a given
// date. All catalog queries are pure functions of the release records
// and an explicitly provided reference date.
package model

import "fmt"

// Release models a published (or not yet published) release of the
// project, as maintained by the release publishing process. A release
// is identified by its version string and carries the release and end
// of support dates beside the downloadable artifact file names.
// Records are append-only historical facts. This layer only queries
// them and the eol date adjustment of a superseded micro release is
// the responsibility of the repository which persists new records.
type Release struct {
	// Version identifies the release, like "4.2.3" or "5.0a1".
	Version Version `json:"version"`

	// Date is the release (publication) date. A release without a
	// date is considered unreleased, typically because the record was
	// created ahead of time for an upcoming version.
	Date *Date `json:"date"`

	// EOMDate is the end of mainstream support date of this release's
	// series, after which only security and data-loss fixes are
	// backported. A missing value means it is not decided yet.
	EOMDate *Date `json:"eom_date"`

	// EOLDate is the end of extended support date, after which the
	// series receives no fixes at all. A missing value means the
	// series is still supported for an undecided period.
	EOLDate *Date `json:"eol_date"`

	// IsActive reports if this release is available for download.
	// Inactive records are ignored by the published releases queries.
	IsActive bool `json:"is_active"`

	// IsLTS reports if this release belongs to a long-term support
	// series. It is constant across all releases of one series.
	IsLTS bool `json:"is_lts"`

	// Artifact file names, relative to the media file server root.
	// Empty fields indicate that no such artifact was uploaded.
	Tarball  string `json:"tarball,omitempty"`
	Wheel    string `json:"wheel,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// Series returns the major.minor series string of this release.
func (r *Release) Series() string {
	return r.Version.Series()
}

// IsPublished reports if this release was available for download at
// the given date. A release is published when it is active and its
// release date is known and not in the future.
func (r *Release) IsPublished(at Date) bool {
	return r.IsActive && r.Date != nil && !at.Before(*r.Date)
}

// IsSupported reports if this release's series was still supported at
// the given date, that is, its end of extended support date is either
// not decided yet or has not been reached.
func (r *Release) IsSupported(at Date) bool {
	return r.EOLDate == nil || at.Before(*r.EOLDate)
}

// Artifact returns the stored file name of the requested artifact
// kind, or an empty string if no such artifact was uploaded for this
// release. Invalid kind causes a panic (callers are expected to
// validate user provided kinds beforehand).
func (r *Release) Artifact(kind ArtifactKind) string {
	switch kind {
	case ArtifactTarball:
		return r.Tarball
	case ArtifactWheel:
		return r.Wheel
	case ArtifactChecksum:
		return r.Checksum
	default:
		panic(ArtifactKindError(kind))
	}
}

// ArtifactPath returns the media storage path of an uploaded artifact
// file, grouping artifacts by their series directory. The actual file
// name is preserved as uploaded, like
// "releases/4.2/Django-4.2.3.tar.gz".
func (r *Release) ArtifactPath(filename string) string {
	return fmt.Sprintf("releases/%s/%s", r.Series(), filename)
}

// ChecksumPath returns the media storage path of the signed checksum
// file of this release, like "pgp/Django-4.2.3.checksum.txt".
func (r *Release) ChecksumPath() string {
	return fmt.Sprintf("pgp/Django-%s.checksum.txt", r.Version)
}
