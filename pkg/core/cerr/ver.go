// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
)

// MismatchingVersionError indicates an error condition where a specific
// version was expected, but another version was present.
// This type is defined as an array containing two version elements. The
// first element is the expected version and the second element is the
// actual version.
type MismatchingVersionError [2]model.Version

// Error returns a string representation of `mve` error instance. This
// method causes *MismatchingVersionError to implement error interface.
func (mve *MismatchingVersionError) Error() string {
	expected := (*mve)[0]
	actual := (*mve)[1]
	return fmt.Sprintf(
		"expected v%s, but got v%s", expected.String(), actual.String(),
	)
}
