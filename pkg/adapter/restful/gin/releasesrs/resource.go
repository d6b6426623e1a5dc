// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package releasesrs realizes the releases resource, allowing the
// release catalog REST APIs to be accepted and delegated to the
// releases use cases respectively.
package releasesrs

import (
	"net/http"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/restful/gin/serdser"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/usecase/releasesuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	rels *releasesuc.UseCase
}

// Register instantiates a resource adapting the releases use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/relweb/v1/releases
//     in order to classify the known releases, either at the current
//     date or at an explicitly given ?at=yyyy-mm-dd date.
//  2. GET request to /api/relweb/v1/releases/:series/latest
//     in order to find the latest micro release of a series.
//  3. GET request to /api/relweb/v1/release-notes/:version
//     in order to be redirected to the release notes docs page.
//  4. GET request to /api/relweb/v1/version
//     in order to read the (cached) current version string.
func Register(r *gin.RouterGroup, rels *releasesuc.UseCase) {
	rs := &resource{rels: rels}
	r.GET("releases", rs.Classification)
	r.GET("releases/:series/latest", rs.LatestMicro)
	r.GET("release-notes/:version", rs.ReleaseNotes)
	r.GET("version", rs.CurrentVersion)
}

func (rs *resource) Classification(c *gin.Context) {
	req := rs.DserClassificationReq(c)
	if req == nil {
		return
	}
	var cl *model.Classification
	var err error
	if req.At == nil {
		cl, err = rs.rels.Classify(c)
	} else {
		cl, err = rs.rels.ClassifyAt(c, *req.At)
	}
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (rs *resource) LatestMicro(c *gin.Context) {
	req := &latestMicroReq{}
	if ok := serdser.BindUri(c, req); !ok {
		return
	}
	r, err := rs.rels.LatestMicro(c, req.Series)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rs *resource) ReleaseNotes(c *gin.Context) {
	req := &releaseNotesReq{}
	if ok := serdser.BindUri(c, req); !ok {
		return
	}
	u, err := rs.rels.ReleaseNotesURL(c, req.Version)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Redirect(http.StatusFound, u)
}

func (rs *resource) CurrentVersion(c *gin.Context) {
	v, err := rs.rels.CurrentVersion(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": v})
}
