// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package releasesuc contains the releases UseCase which supports the
// release catalog use cases, namely classifying the known releases at
// a reference date, resolving the latest micro release of a series,
// redirecting the release notes and download requests, and reporting
// the current version for the project website.
package releasesuc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Adya-Prasad/djangoproject.com/pkg/core/cerr"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/log"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/repo"
)

// UseCase represents a releases use case. It holds a database
// connection pool, the releases repository instance (to be guided with
// the DB pool), and the releases use case specific settings.
// The current version query result is cached for a configurable
// period, so the frequently rendered website header does not hit the
// database on each request.
type UseCase struct {
	pool       repo.Pool
	releasesrp repo.Releases

	docsBaseURL       string
	mediaBaseURL      string
	currentVersionTTL time.Duration
	now               func() time.Time

	mutex       sync.Mutex // guards the two following fields
	cachedVer   string
	cachedUntil time.Time
}

// New instantiates a releases use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, r repo.Releases, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, releasesrp: r}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.docsBaseURL == "" {
		uc.docsBaseURL = "https://docs.djangoproject.com"
	}
	if uc.mediaBaseURL == "" {
		uc.mediaBaseURL = "/m/"
	}
	if uc.currentVersionTTL == 0 {
		uc.currentVersionTTL = 5 * time.Minute
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Catalog use case loads all release records and returns them indexed
// as a catalog instance. The catalog is rebuilt on each call, so it
// reflects the persisted records at the call time.
func (rels *UseCase) Catalog(ctx context.Context) (cat *model.Catalog, err error) {
	err = rels.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := rels.releasesrp.Conn(c)
		rs, err := q.List(ctx)
		if err != nil {
			return err
		}
		cat, err = model.NewCatalog(rs)
		return err
	})
	if err != nil {
		cat = nil
	}
	return
}

// Classify use case classifies the known releases at the current date,
// finding the current, preview, previous, long-term support, and
// unsupported releases.
func (rels *UseCase) Classify(ctx context.Context) (*model.Classification, error) {
	return rels.ClassifyAt(ctx, model.DateOf(rels.now()))
}

// ClassifyAt use case classifies the known releases at the given
// reference date. The reference date is an explicit parameter, so the
// classification of a historical (or future) date may be queried too.
func (rels *UseCase) ClassifyAt(ctx context.Context, at model.Date) (*model.Classification, error) {
	cat, err := rels.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Classify(at), nil
}

// LatestMicro use case finds the release with the greatest version in
// the given major.minor series, like "4.2". Malformed series strings
// and unknown series are reported with bad request and not found
// errors respectively.
func (rels *UseCase) LatestMicro(ctx context.Context, series string) (*model.Release, error) {
	cat, err := rels.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	r, err := cat.LatestMicro(series)
	switch {
	case errors.Is(err, model.ErrMalformedVersion):
		return nil, cerr.BadRequest(err)
	case errors.Is(err, model.ErrSeriesNotFound):
		return nil, cerr.NotFound(err)
	case err != nil:
		return nil, err
	}
	return r, nil
}

// ReleaseNotesURL use case computes the documentation URL of the
// release notes of the given version. Final releases are documented
// under their own series docs while pre-releases are only documented
// by the in-development docs.
func (rels *UseCase) ReleaseNotesURL(ctx context.Context, version string) (string, error) {
	cat, err := rels.Catalog(ctx)
	if err != nil {
		return "", err
	}
	r, err := cat.Find(version)
	switch {
	case errors.Is(err, model.ErrMalformedVersion):
		return "", cerr.BadRequest(err)
	case errors.Is(err, model.ErrReleaseNotFound):
		return "", cerr.NotFound(err)
	case err != nil:
		return "", err
	}
	docs := r.Series()
	if r.Version.IsPreRelease() {
		docs = "dev"
	}
	return fmt.Sprintf(
		"%s/en/%s/releases/%s/", rels.docsBaseURL, docs, r.Version,
	), nil
}

// Download use case resolves the media file server URL of the given
// artifact kind of the given version, as the target of a permanent
// redirection. Malformed version or kind strings are reported with a
// bad request error, while unknown versions and missing artifacts are
// reported with a not found error.
func (rels *UseCase) Download(ctx context.Context, version, kind string) (string, error) {
	k, err := model.ParseArtifactKind(kind)
	if err != nil {
		return "", cerr.BadRequest(err)
	}
	cat, err := rels.Catalog(ctx)
	if err != nil {
		return "", err
	}
	r, err := cat.Find(version)
	switch {
	case errors.Is(err, model.ErrMalformedVersion):
		return "", cerr.BadRequest(err)
	case errors.Is(err, model.ErrReleaseNotFound):
		return "", cerr.NotFound(err)
	case err != nil:
		return "", err
	}
	filename := r.Artifact(k)
	if filename == "" {
		return "", cerr.NotFound(fmt.Errorf(
			"no %s artifact for version %s", k, r.Version,
		))
	}
	path := r.ArtifactPath(filename)
	if k == model.ArtifactChecksum {
		path = r.ChecksumPath()
	}
	return rels.mediaBaseURL + path, nil
}

// CurrentVersion use case reports the version string of the current
// release, caching it for the configured period. An empty string is
// reported while no final release is supported at all. If the catalog
// cannot be loaded while an expired cached version is at hand, the
// stale version will be served with a warning log.
func (rels *UseCase) CurrentVersion(ctx context.Context) (string, error) {
	now := rels.now()
	rels.mutex.Lock()
	if now.Before(rels.cachedUntil) {
		v := rels.cachedVer
		rels.mutex.Unlock()
		return v, nil
	}
	stale := rels.cachedVer
	rels.mutex.Unlock()
	cat, err := rels.Catalog(ctx)
	if err != nil {
		if stale != "" {
			log.Warn(
				ctx,
				"serving stale current version",
				log.Err("cause", err),
			)
			return stale, nil
		}
		return "", err
	}
	v := ""
	if cur := cat.Current(model.DateOf(now)); cur != nil {
		v = cur.Version.String()
	}
	rels.mutex.Lock()
	rels.cachedVer = v
	rels.cachedUntil = now.Add(rels.currentVersionTTL)
	rels.mutex.Unlock()
	return v, nil
}

// Import use case persists the given release records in a single
// transaction. Publishing a final micro release also ends the life of
// its predecessor micro release, as implemented by the repository.
func (rels *UseCase) Import(ctx context.Context, releases ...model.Release) error {
	return rels.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := rels.releasesrp.Tx(tx)
			return q.Create(ctx, releases...)
		})
	})
}
