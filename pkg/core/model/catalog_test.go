// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rel creates an active release record for the catalog fixture. Empty
// date strings indicate missing (undecided) dates.
func rel(t *testing.T, version, date, eol string, lts bool) model.Release {
	t.Helper()
	r := model.Release{
		Version:  mustParse(t, version),
		IsActive: true,
		IsLTS:    lts,
	}
	if date != "" {
		d := &model.Date{}
		require.NoError(t, d.UnmarshalText([]byte(date)))
		r.Date = d
	}
	if eol != "" {
		d := &model.Date{}
		require.NoError(t, d.UnmarshalText([]byte(eol)))
		r.EOLDate = d
	}
	return r
}

func atDate(t *testing.T, date string) model.Date {
	t.Helper()
	d := model.Date{}
	require.NoError(t, d.UnmarshalText([]byte(date)))
	return d
}

// fixtureCatalog builds a catalog resembling a slice of the real
// release history, including an old pre-1.0 release, two overlapping
// long-term support series, a superseded micro release, a published
// release candidate, an inactive record, and a record without a
// release date yet.
func fixtureCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	inactive := rel(t, "1.10.1", "2016-09-01", "", false)
	inactive.IsActive = false
	cat, err := model.NewCatalog([]model.Release{
		rel(t, "0.96", "2007-03-23", "2008-03-23", false),
		rel(t, "1.4", "2012-03-23", "2015-10-01", true),
		rel(t, "1.5", "2013-02-26", "2014-09-02", false),
		rel(t, "1.6", "2013-11-06", "2015-04-01", false),
		rel(t, "1.7", "2014-09-02", "2015-12-01", false),
		rel(t, "1.8", "2015-04-01", "2018-04-01", true),
		rel(t, "1.9", "2015-12-01", "2017-04-04", false),
		rel(t, "1.9.1", "2016-02-01", "2017-04-04", false),
		rel(t, "1.10rc1", "2016-07-20", "", false),
		rel(t, "1.10", "2016-08-01", "2017-12-02", false),
		inactive,
		rel(t, "2.0a1", "2017-09-22", "", false),
		rel(t, "2.1", "", "", false),
	})
	require.NoError(t, err)
	return cat
}

func versions(rs []*model.Release) []string {
	vs := make([]string, 0, len(rs))
	for _, r := range rs {
		vs = append(vs, r.Version.String())
	}
	return vs
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := model.NewCatalog([]model.Release{
		rel(t, "4.2.1", "2023-05-03", "", true),
		rel(t, "4.2.1", "2023-06-05", "", true),
	})
	assert.ErrorContains(t, err, `duplicate release version "4.2.1"`)
}

func TestCatalogFind(t *testing.T) {
	cat := fixtureCatalog(t)
	assert.Equal(t, 13, cat.Len())

	r, err := cat.Find("1.9.1")
	require.NoError(t, err)
	assert.Equal(t, "1.9.1", r.Version.String())

	// non-canonical spellings resolve to the same record
	r, err = cat.Find("1.10-rc1")
	require.NoError(t, err)
	assert.Equal(t, "1.10rc1", r.Version.String())

	_, err = cat.Find("1.9.2")
	assert.ErrorIs(t, err, model.ErrReleaseNotFound)

	_, err = cat.Find("bogus")
	assert.ErrorIs(t, err, model.ErrMalformedVersion)
}

func TestCatalogLatestMicro(t *testing.T) {
	cat := fixtureCatalog(t)

	r, err := cat.LatestMicro("1.9")
	require.NoError(t, err)
	assert.Equal(t, "1.9.1", r.Version.String())

	// the greatest version of the series is reported, even while the
	// record itself is not published yet
	r, err = cat.LatestMicro("1.10")
	require.NoError(t, err)
	assert.Equal(t, "1.10.1", r.Version.String())

	_, err = cat.LatestMicro("3.0")
	assert.ErrorIs(t, err, model.ErrSeriesNotFound)

	_, err = cat.LatestMicro("1.9.1")
	assert.ErrorIs(t, err, model.ErrMalformedVersion)
}

func TestCatalogQueries(t *testing.T) {
	cat := fixtureCatalog(t)
	at := atDate(t, "2016-09-15")

	assert.Equal(
		t,
		[]string{"1.10", "1.10rc1", "1.9.1", "1.9", "1.8"},
		versions(cat.Published(at)),
	)
	assert.Equal(
		t,
		[]string{"1.10", "1.9.1", "1.9", "1.8"},
		versions(cat.Supported(at)),
	)
	assert.Equal(t, "1.10", cat.Current(at).Version.String())
	assert.Equal(t, "1.9.1", cat.Previous(at).Version.String())
	assert.Equal(t, "1.8", cat.CurrentLTS(at).Version.String())
	assert.Nil(t, cat.PreviousLTS(at))
	// the published 1.10rc1 is already superseded by the 1.10 final
	assert.Nil(t, cat.Preview(at))
	assert.Equal(
		t,
		[]string{"1.7", "1.6", "1.5", "1.4"},
		versions(cat.Unsupported(at)),
	)
}

func TestCatalogPreview(t *testing.T) {
	cat := fixtureCatalog(t)

	// before the 1.10 final release, its release candidate is the
	// downloadable preview
	at := atDate(t, "2016-07-25")
	require.NotNil(t, cat.Preview(at))
	assert.Equal(t, "1.10rc1", cat.Preview(at).Version.String())
	assert.Equal(t, "1.9.1", cat.Current(at).Version.String())

	// much later, a newer alpha takes its place
	at = atDate(t, "2017-10-01")
	require.NotNil(t, cat.Preview(at))
	assert.Equal(t, "2.0a1", cat.Preview(at).Version.String())
}

func TestCatalogOverlappingLTS(t *testing.T) {
	cat := fixtureCatalog(t)
	at := atDate(t, "2015-06-01")

	assert.Equal(
		t,
		[]string{"1.8", "1.7", "1.4"},
		versions(cat.Supported(at)),
	)
	assert.Equal(t, "1.8", cat.CurrentLTS(at).Version.String())
	assert.Equal(t, "1.4", cat.PreviousLTS(at).Version.String())

	cl := cat.Classify(at)
	assert.Equal(t, "1.8", cl.Current.Version.String())
	assert.Equal(t, "1.7", cl.Previous.Version.String())
	// only the most recent supported LTS may be surfaced and it is
	// already reported as the current release
	assert.Nil(t, cl.LTS)
	assert.Equal(
		t, []string{"1.6", "1.5"}, versions(cl.Unsupported),
	)
}

func TestCatalogClassify(t *testing.T) {
	cat := fixtureCatalog(t)

	cl := cat.Classify(atDate(t, "2016-09-15"))
	assert.Equal(t, "1.10", cl.Current.Version.String())
	assert.Equal(t, "1.9.1", cl.Previous.Version.String())
	require.NotNil(t, cl.LTS)
	assert.Equal(t, "1.8", cl.LTS.Version.String())
	assert.Nil(t, cl.Preview)
	assert.Equal(
		t,
		[]string{"1.7", "1.6", "1.5", "1.4"},
		versions(cl.Unsupported),
	)

	cl = cat.Classify(atDate(t, "2017-10-01"))
	assert.Equal(t, "1.10", cl.Current.Version.String())
	require.NotNil(t, cl.Preview)
	assert.Equal(t, "2.0a1", cl.Preview.Version.String())
	assert.Equal(t, "1.8", cl.Previous.Version.String())
	// the latest supported LTS is already the previous release
	assert.Nil(t, cl.LTS)
	assert.Equal(
		t,
		[]string{"1.9.1", "1.7", "1.6", "1.5", "1.4"},
		versions(cl.Unsupported),
	)
}

func TestCatalogEmpty(t *testing.T) {
	cat, err := model.NewCatalog(nil)
	require.NoError(t, err)
	at := atDate(t, "2024-01-01")

	assert.Nil(t, cat.Current(at))
	assert.Nil(t, cat.Previous(at))
	assert.Nil(t, cat.Preview(at))
	assert.Nil(t, cat.CurrentLTS(at))
	assert.Empty(t, cat.Published(at))

	cl := cat.Classify(at)
	assert.Nil(t, cl.Current)
	assert.Nil(t, cl.Preview)
	assert.Nil(t, cl.Previous)
	assert.Nil(t, cl.LTS)
	assert.Empty(t, cl.Unsupported)
}
