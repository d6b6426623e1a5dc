// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package downloadrs realizes the download resource, redirecting the
// artifact download requests permanently to the media file server
// paths of the stored artifact files.
package downloadrs

import (
	"net/http"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/restful/gin/serdser"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/usecase/releasesuc"
	"github.com/gin-gonic/gin"
)

type resource struct {
	rels *releasesuc.UseCase
}

// Register instantiates a resource adapting the releases use case
// instance with the download REST API:
//  1. GET request to /download/:version/:kind
//     in order to be redirected (permanently) to the media file
//     server path of the requested artifact, where kind is one of
//     the tarball, wheel, or checksum values.
func Register(r *gin.RouterGroup, rels *releasesuc.UseCase) {
	rs := &resource{rels: rels}
	r.GET("download/:version/:kind", rs.Download)
}

type downloadReq struct {
	Version string `uri:"version" binding:"required"`
	Kind    string `uri:"kind" binding:"required,oneof=tarball wheel checksum"`
}

func (rs *resource) Download(c *gin.Context) {
	req := &downloadReq{}
	if ok := serdser.BindUri(c, req); !ok {
		return
	}
	u, err := rs.rels.Download(c, req.Version, req.Kind)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Redirect(http.StatusMovedPermanently, u)
}
