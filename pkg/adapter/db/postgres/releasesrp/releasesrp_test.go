// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package releasesrp_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Adya-Prasad/djangoproject.com/internal/test/dbcontainer"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres/releasesrp"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/cerr"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/repo"
	"github.com/bitcomplete/sqltestutil"
	"github.com/stretchr/testify/suite"
)

type IntegrationReleasesRPTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Repo *releasesrp.Repo
}

func TestIntegrationReleasesRPTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationReleasesRPTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
		Repo: releasesrp.New(),
	})
}

func (irts *IntegrationReleasesRPTestSuite) SetupSuite() {
	err := irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return releasesrp.InitSchema(ctx, c.(*postgres.Conn))
		},
	)
	irts.Require().NoError(err, "failed to create the releases table")
}

func (irts *IntegrationReleasesRPTestSuite) release(
	version, date, eol string, lts bool,
) model.Release {
	v, err := model.ParseVersion(version)
	irts.Require().NoError(err, "bad fixture version %q", version)
	r := model.Release{
		Version:  v,
		IsActive: true,
		IsLTS:    lts,
		Tarball:  "Django-" + version + ".tar.gz",
		Wheel:    "Django-" + version + "-py3-none-any.whl",
		Checksum: "Django-" + version + ".checksum.txt",
	}
	if date != "" {
		d := &model.Date{}
		irts.Require().NoError(d.UnmarshalText([]byte(date)))
		r.Date = d
	}
	if eol != "" {
		d := &model.Date{}
		irts.Require().NoError(d.UnmarshalText([]byte(eol)))
		r.EOLDate = d
	}
	return r
}

func (irts *IntegrationReleasesRPTestSuite) create(
	releases ...model.Release,
) error {
	return irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				return irts.Repo.Tx(tx).Create(ctx, releases...)
			})
		},
	)
}

func (irts *IntegrationReleasesRPTestSuite) list() []model.Release {
	var rs []model.Release
	err := irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			var err error
			rs, err = irts.Repo.Conn(c).List(ctx)
			return err
		},
	)
	irts.Require().NoError(err, "failed to list releases")
	return rs
}

func (irts *IntegrationReleasesRPTestSuite) bySeries(
	rs []model.Release, series string,
) []string {
	vs := make([]string, 0, len(rs))
	for _, r := range rs {
		if r.Series() == series {
			vs = append(vs, r.Version.String())
		}
	}
	return vs
}

func (irts *IntegrationReleasesRPTestSuite) TestCreateAndList() {
	r42 := irts.release("1.42", "2023-04-03", "2026-04-01", true)
	err := irts.create(
		r42,
		irts.release("1.42rc1", "2023-03-20", "", false),
		irts.release("1.42a1", "2023-01-17", "", false),
		irts.release("1.42b1", "2023-02-20", "", false),
	)
	irts.Require().NoError(err, "failed to create releases")

	rs := irts.list()
	// final > rc > beta > alpha despite their insertion order
	irts.Equal(
		[]string{"1.42", "1.42rc1", "1.42b1", "1.42a1"},
		irts.bySeries(rs, "1.42"),
	)
	for _, r := range rs {
		if r.Version != r42.Version {
			continue
		}
		irts.Equal(r42.Date.String(), r.Date.String())
		irts.Equal(r42.EOLDate.String(), r.EOLDate.String())
		irts.Nil(r.EOMDate)
		irts.True(r.IsActive)
		irts.True(r.IsLTS)
		irts.Equal("Django-1.42.tar.gz", r.Tarball)
		irts.Equal("Django-1.42-py3-none-any.whl", r.Wheel)
		irts.Equal("Django-1.42.checksum.txt", r.Checksum)
	}
}

func (irts *IntegrationReleasesRPTestSuite) TestNumericVersionOrdering() {
	err := irts.create(
		irts.release("2.9", "2020-01-01", "", false),
		irts.release("2.10", "2020-06-01", "", false),
		irts.release("2.10.2", "2020-08-01", "", false),
		irts.release("2.10.1", "2020-07-01", "", false),
	)
	irts.Require().NoError(err, "failed to create releases")

	rs := irts.list()
	// micro and minor components must be compared numerically
	irts.Equal(
		[]string{"2.10.2", "2.10.1", "2.10"},
		irts.bySeries(rs, "2.10"),
	)
	vs := make([]string, 0, 2)
	for _, r := range rs {
		if r.Version.Major == 2 && r.Version.Micro == 0 {
			vs = append(vs, r.Version.String())
		}
	}
	irts.Equal([]string{"2.10", "2.9"}, vs)
}

func (irts *IntegrationReleasesRPTestSuite) TestDuplicateConflict() {
	r := irts.release("3.7", "2021-01-01", "", false)
	irts.Require().NoError(irts.create(r))

	err := irts.create(r)
	irts.Require().Error(err, "duplicate versions must be rejected")
	ce := &cerr.Error{}
	irts.Require().ErrorAs(err, &ce)
	irts.Equal(http.StatusConflict, ce.HTTPStatusCode)
	irts.ErrorContains(err, `version "3.7" already exists`)
}

func (irts *IntegrationReleasesRPTestSuite) TestEOLOfPredecessorMicro() {
	err := irts.create(irts.release("4.8", "2022-01-01", "", false))
	irts.Require().NoError(err)

	// a published final micro ends the life of its predecessor
	err = irts.create(irts.release("4.8.1", "2022-03-01", "", false))
	irts.Require().NoError(err)
	for _, r := range irts.list() {
		if r.Version.String() != "4.8" {
			continue
		}
		irts.Require().NotNil(r.EOLDate, "4.8 must be EOLed by 4.8.1")
		irts.Equal("2022-03-01", r.EOLDate.String())
	}

	// the next micro only EOLs its direct predecessor, leaving the
	// already recorded eol dates intact
	err = irts.create(irts.release("4.8.2", "2022-05-01", "", false))
	irts.Require().NoError(err)
	for _, r := range irts.list() {
		switch r.Version.String() {
		case "4.8":
			irts.Equal("2022-03-01", r.EOLDate.String())
		case "4.8.1":
			irts.Require().NotNil(r.EOLDate)
			irts.Equal("2022-05-01", r.EOLDate.String())
		}
	}
}

func (irts *IntegrationReleasesRPTestSuite) TestNoEOLForUnpublished() {
	err := irts.create(irts.release("6.3", "2024-01-01", "", false))
	irts.Require().NoError(err)

	// an unscheduled micro release must not EOL its predecessor
	unsched := irts.release("6.3.1", "", "", false)
	irts.Require().NoError(irts.create(unsched))
	// neither a pre-release of the next series
	irts.Require().NoError(
		irts.create(irts.release("6.4a1", "2024-04-01", "", false)),
	)
	for _, r := range irts.list() {
		if r.Version.String() == "6.3" {
			irts.Nil(r.EOLDate, "6.3 must not be EOLed")
		}
	}
}
