// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package releasesuc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Option is a functional option for the releases use case.
type Option func(uc *UseCase) error

// WithDocsBaseURL option configures a releases UseCase instance to
// compute the release notes URLs relative to the given documentation
// base URL. This option may be passed to the New() function.
func WithDocsBaseURL(baseURL string) Option {
	return func(uc *UseCase) error {
		if baseURL == "" {
			return errors.New("docs base URL is empty")
		}
		if uc.docsBaseURL != "" {
			return errors.New("docs base URL is already configured")
		}
		uc.docsBaseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithMediaBaseURL option configures a releases UseCase instance to
// compute the download redirection URLs relative to the given media
// file server base URL. This option may be passed to the New()
// function.
func WithMediaBaseURL(baseURL string) Option {
	return func(uc *UseCase) error {
		if baseURL == "" {
			return errors.New("media base URL is empty")
		}
		if uc.mediaBaseURL != "" {
			return errors.New("media base URL is already configured")
		}
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		uc.mediaBaseURL = baseURL
		return nil
	}
}

// WithCurrentVersionCacheTTL option configures a releases UseCase
// instance to cache the current version query result for the given
// period. This option may be passed to the New() function.
func WithCurrentVersionCacheTTL(ttl time.Duration) Option {
	return func(uc *UseCase) error {
		if d := int64(ttl); d <= 0 {
			return fmt.Errorf("ttl (%d) is not positive", d)
		}
		if uc.currentVersionTTL != 0 {
			return errors.New("ttl is already configured")
		}
		uc.currentVersionTTL = ttl
		return nil
	}
}

// WithClock option configures a releases UseCase instance to read the
// current time from the given function instead of the system clock.
// This option may be passed to the New() function and is mainly useful
// for tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock function is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}
