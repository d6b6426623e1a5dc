// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adya-Prasad/djangoproject.com/internal/test/dbcontainer"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config/cfg1"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres/releasesrp"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/restful/gin"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/restful/gin/routes"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/repo"
	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	err := igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			cc := c.(*postgres.Conn)
			if err := releasesrp.InitSchema(ctx, cc); err != nil {
				return err
			}
			// the 4.2.1 record implicitly EOLs the 4.2 record and
			// the 5.2a1 record has no wheel artifact
			return releasesrp.Create(
				ctx, cc,
				igts.release("4.2", "2023-04-03", "", true),
				igts.release("4.2.1", "2023-05-01", "", true),
				igts.release("5.0", "2023-12-04", "2025-04-02", false),
				igts.release("5.1", "2024-08-07", "", false),
				igts.release("5.2a1", "2025-01-15", "", false),
			)
		},
	)
	igts.Require().NoError(err, "failed to initialize the database")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery(), gin.RequestID())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	docs := "https://docs.djangoproject.com"
	media := "https://media.djangoproject.com/"
	c := &cfg1.Config{}
	c.Site.DocsURL = &docs
	c.Site.MediaURL = &media
	err = routes.Register(igts.Gin, igts.Pool, c)
	igts.Require().NoError(err, "failed to register Gin routes")
}

func (igts *IntegrationGinTestSuite) release(
	version, date, eol string, lts bool,
) model.Release {
	v, err := model.ParseVersion(version)
	igts.Require().NoError(err, "bad fixture version %q", version)
	r := model.Release{
		Version:  v,
		IsActive: true,
		IsLTS:    lts,
		Tarball:  "Django-" + version + ".tar.gz",
		Checksum: "Django-" + version + ".checksum.txt",
	}
	if !v.IsPreRelease() {
		r.Wheel = "Django-" + version + "-py3-none-any.whl"
	}
	if date != "" {
		d := &model.Date{}
		igts.Require().NoError(d.UnmarshalText([]byte(date)))
		r.Date = d
	}
	if eol != "" {
		d := &model.Date{}
		igts.Require().NoError(d.UnmarshalText([]byte(eol)))
		r.EOLDate = d
	}
	return r
}

func (igts *IntegrationGinTestSuite) get(
	path string,
) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	igts.Require().NoError(err, "cannot create GET request")
	igts.Gin.ServeHTTP(w, req)
	return w
}

func (igts *IntegrationGinTestSuite) getJSON(
	path string, res any,
) *httptest.ResponseRecorder {
	w := igts.get(path)
	igts.Require().NoError(
		json.Unmarshal(w.Body.Bytes(), res), "body is not json",
	)
	return w
}

type release struct {
	Version string  `json:"version"`
	EOLDate *string `json:"eol_date"`
	IsLTS   bool    `json:"is_lts"`
}

type classification struct {
	Current     *release  `json:"current"`
	Preview     *release  `json:"preview"`
	Previous    *release  `json:"previous"`
	LTS         *release  `json:"lts"`
	Unsupported []release `json:"unsupported"`
}

func (igts *IntegrationGinTestSuite) TestClassificationAtDate() {
	res := &classification{}
	w := igts.getJSON("/api/relweb/v1/releases?at=2025-05-01", res)
	igts.Equal(200, w.Code)
	igts.NotEmpty(
		w.Header().Get("X-Request-ID"), "missing request id header",
	)

	igts.Require().NotNil(res.Current)
	igts.Equal("5.1", res.Current.Version)
	igts.Require().NotNil(res.Preview)
	igts.Equal("5.2a1", res.Preview.Version)
	igts.Require().NotNil(res.Previous)
	igts.Equal("4.2.1", res.Previous.Version)
	igts.True(res.Previous.IsLTS)
	// the latest LTS is already reported as the previous release
	igts.Nil(res.LTS)
	igts.Require().Equal(1, len(res.Unsupported))
	igts.Equal("5.0", res.Unsupported[0].Version)
}

func (igts *IntegrationGinTestSuite) TestClassificationNow() {
	res := &classification{}
	w := igts.getJSON("/api/relweb/v1/releases", res)
	igts.Equal(200, w.Code)
	// only the ever-green part of the fixture can be asserted when
	// classifying at the current date
	igts.Require().NotNil(res.Current)
	igts.Equal("5.1", res.Current.Version)
}

func (igts *IntegrationGinTestSuite) TestClassificationBadDate() {
	res := &struct {
		At []string `json:"At"`
	}{}
	w := igts.getJSON("/api/relweb/v1/releases?at=01-05-2025", res)
	igts.Equal(400, w.Code)
	igts.Require().Equal(1, len(res.At))
	igts.Contains(res.At[0], "datetime")
}

func (igts *IntegrationGinTestSuite) TestLatestMicro() {
	res := &release{}
	w := igts.getJSON("/api/relweb/v1/releases/4.2/latest", res)
	igts.Equal(200, w.Code)
	igts.Equal("4.2.1", res.Version)
	igts.True(res.IsLTS)
	igts.Require().NotNil(res.EOLDate, "4.2.1 must EOL the 4.2 record")
}

func (igts *IntegrationGinTestSuite) TestLatestMicroErrors() {
	res := &struct {
		Detail string `json:"detail"`
	}{}
	w := igts.getJSON("/api/relweb/v1/releases/9.9/latest", res)
	igts.Equal(404, w.Code)
	igts.Contains(res.Detail, "series not found")

	w = igts.getJSON("/api/relweb/v1/releases/abc/latest", res)
	igts.Equal(400, w.Code)
	igts.Contains(res.Detail, "malformed")
}

func (igts *IntegrationGinTestSuite) TestReleaseNotesRedirection() {
	w := igts.get("/api/relweb/v1/release-notes/5.1")
	igts.Equal(302, w.Code)
	igts.Equal(
		"https://docs.djangoproject.com/en/5.1/releases/5.1/",
		w.Header().Get("Location"),
	)

	// pre-releases are documented by the in-development docs
	w = igts.get("/api/relweb/v1/release-notes/5.2a1")
	igts.Equal(302, w.Code)
	igts.Equal(
		"https://docs.djangoproject.com/en/dev/releases/5.2a1/",
		w.Header().Get("Location"),
	)

	w = igts.get("/api/relweb/v1/release-notes/9.9")
	igts.Equal(404, w.Code)
}

func (igts *IntegrationGinTestSuite) TestDownloadRedirection() {
	w := igts.get("/download/5.1/tarball")
	igts.Equal(301, w.Code)
	igts.Equal(
		"https://media.djangoproject.com/releases/5.1/Django-5.1.tar.gz",
		w.Header().Get("Location"),
	)

	w = igts.get("/download/5.1/checksum")
	igts.Equal(301, w.Code)
	igts.Equal(
		"https://media.djangoproject.com/pgp/Django-5.1.checksum.txt",
		w.Header().Get("Location"),
	)
}

func (igts *IntegrationGinTestSuite) TestDownloadErrors() {
	res := &struct {
		Kind []string `json:"Kind"`
	}{}
	w := igts.getJSON("/download/5.1/exe", res)
	igts.Equal(400, w.Code)
	igts.Require().Equal(1, len(res.Kind))
	igts.Contains(res.Kind[0], "oneof")

	w = igts.get("/download/9.9/tarball")
	igts.Equal(404, w.Code)

	// the seeded 5.2a1 record has no wheel artifact
	det := &struct {
		Detail string `json:"detail"`
	}{}
	w = igts.getJSON("/download/5.2a1/wheel", det)
	igts.Equal(404, w.Code)
	igts.Contains(det.Detail, "no wheel artifact")
}

func (igts *IntegrationGinTestSuite) TestCurrentVersion() {
	res := &struct {
		Version string `json:"version"`
	}{}
	w := igts.getJSON("/api/relweb/v1/version", res)
	igts.Equal(200, w.Code)
	igts.Equal("5.1", res.Version)

	// a second read must be served by the cache
	w = igts.getJSON("/api/relweb/v1/version", res)
	igts.Equal(200, w.Code)
	igts.Equal("5.1", res.Version)
}
