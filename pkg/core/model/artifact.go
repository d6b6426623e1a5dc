// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// ArtifactKind specifies the downloadable artifact kinds enum which
// accepts the tarball, wheel, and checksum kinds. Although this enum
// is numeric, it is (de)serialized as a string for readability in the
// adapter layer (e.g., in the download redirection URLs).
type ArtifactKind int

// Valid values for the ArtifactKind enum.
const (
	ArtifactKindInvalid ArtifactKind = iota // zero value is invalid

	ArtifactTarball  // source distribution as a .tar.gz file
	ArtifactWheel    // built distribution as a .whl file
	ArtifactChecksum // signed checksum of the other artifacts
)

// ErrUnknownArtifactKind indicates that a given string may not be
// parsed as a valid/known artifact kind. This error encodes a
// description err string and does not communicate the invalid kind
// string itself because the caller of ParseArtifactKind already knows
// about the invalid artifact kind string.
var ErrUnknownArtifactKind = errors.New("unknown artifact kind")

// ArtifactKindError indicates an invalid artifact kind. This error
// contains the invalid kind as an integer, so functions which find
// out about an invalid kind during their execution (and not by their
// arguments) can report it.
type ArtifactKindError int

// Error implements the error interface, returning a string
// representation of the ArtifactKindError.
func (e ArtifactKindError) Error() string {
	return fmt.Sprintf("invalid artifact kind: %d", int(e))
}

// Validate returns nil if ArtifactKind value is valid. For invalid
// values, an instance of the ArtifactKindError will be returned.
func (k ArtifactKind) Validate() error {
	switch k {
	case ArtifactTarball, ArtifactWheel, ArtifactChecksum:
		return nil
	default:
		return ArtifactKindError(k)
	}
}

// String converts the ArtifactKind enum to a string, helping to
// serialize it for transmission to web clients (for improved
// readability). Invalid artifact kind causes a panic.
func (k ArtifactKind) String() string {
	switch k {
	case ArtifactTarball:
		return "tarball"
	case ArtifactWheel:
		return "wheel"
	case ArtifactChecksum:
		return "checksum"
	default:
		panic(ArtifactKindError(k))
	}
}

// ParseArtifactKind parses the given string and returns an
// ArtifactKind, helping to deserialize it when reading a REST API
// request. For invalid strings, ArtifactKindInvalid and
// ErrUnknownArtifactKind will be returned.
func ParseArtifactKind(kind string) (ArtifactKind, error) {
	switch kind {
	case "tarball":
		return ArtifactTarball, nil
	case "wheel":
		return ArtifactWheel, nil
	case "checksum":
		return ArtifactChecksum, nil
	default:
		return ArtifactKindInvalid, ErrUnknownArtifactKind
	}
}
