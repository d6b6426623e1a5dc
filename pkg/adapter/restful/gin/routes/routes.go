// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config/cfg1"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres/releasesrp"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/restful/gin/downloadrs"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/restful/gin/releasesrs"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/repo"
	"github.com/gin-gonic/gin"
)

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like releasesuc and each repository package is named like releasesrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like releasesrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Possible errors will be returned after possible wrapping.
func Register(e *gin.Engine, p repo.Pool, c *cfg1.Config) error {
	releasesRepo := releasesrp.New()

	releasesUseCase, err := c.NewReleasesUseCase(p, releasesRepo)
	if err != nil {
		return fmt.Errorf("creating releases use case: %w", err)
	}
	r := e.Group("/api/relweb/v1")
	releasesrs.Register(r, releasesUseCase)
	downloadrs.Register(&e.RouterGroup, releasesUseCase)
	return nil
}
