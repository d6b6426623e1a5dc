// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config/cfg1"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config/settings"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config/vers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func ExampleConfig_MarshalYAML() {
	d, l, r := settings.Duration(5*time.Minute), true, true
	docs := "https://docs.djangoproject.com"
	media := "https://media.djangoproject.com/"
	c := &cfg1.Config{
		Database: cfg1.Database{
			Host:    "127.0.0.1",
			Port:    5432,
			Name:    "releases",
			User:    "relweb",
			PassDir: "/var/lib/relweb",
		},
		Gin: cfg1.Gin{
			Logger:   &l,
			Recovery: &r,
		},
		Site: cfg1.Site{
			DocsURL:  &docs,
			MediaURL: &media,
		},
		Usecases: cfg1.Usecases{
			Releases: cfg1.Releases{
				CurrentVersionTTL: &d,
			},
		},
		Vers: vers.Config{
			Versions: vers.Versions{
				Config: cfg1.Version,
			},
		},
	}
	b, err := yaml.Marshal(c)
	fmt.Println(err)
	fmt.Println(string(b))
	// Output:
	// <nil>
	// database:
	//     host: 127.0.0.1
	//     port: 5432
	//     name: releases
	//     user: relweb
	//     pass-dir: /var/lib/relweb
	// gin:
	//     logger: true
	//     recovery: true
	// site:
	//     docs-url: https://docs.djangoproject.com
	//     media-url: https://media.djangoproject.com/
	// usecases:
	//     releases:
	//         current-version-ttl: 5m
	// versions:
	//     config: "1.0"
}

func TestLoad(t *testing.T) {
	data := []byte(`# deployment settings
database:
  host: db.example.org
  port: 5432
  name: releases
  user: relweb
  pass-dir: /etc/relweb
site:
  docs-url: https://docs.example.com
usecases:
  releases:
    current-version-ttl: 10m
    current-version-ttl-minimum: 1s
    current-version-ttl-maximum: 1h
versions:
  config: "1.0"
`)
	c, err := cfg1.Load(data)
	require.NoError(t, err)

	assert.Equal(t, "db.example.org", c.Database.Host)
	assert.Equal(t, 5432, c.Database.Port)
	assert.Equal(t, "releases", c.Database.Name)
	assert.Equal(t, "relweb", c.Database.User)
	assert.Equal(t, "/etc/relweb", c.Database.PassDir)

	// missing gin settings take their zero values
	require.NotNil(t, c.Gin.Logger)
	assert.False(t, *c.Gin.Logger)
	require.NotNil(t, c.Gin.Recovery)
	assert.False(t, *c.Gin.Recovery)

	require.NotNil(t, c.Site.DocsURL)
	assert.Equal(t, "https://docs.example.com", *c.Site.DocsURL)
	assert.Nil(t, c.Site.MediaURL)

	ttl := c.Usecases.Releases.CurrentVersionTTL
	require.NotNil(t, ttl)
	assert.Equal(t, settings.Duration(10*time.Minute), *ttl)

	assert.Equal(t, cfg1.Version, c.Version())
	assert.Equal(t, uint(cfg1.Major), c.MajorVersion())

	// the head comments survive a load and store cycle
	require.NotNil(t, c.Comments)
	b, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), "# deployment settings")
}

func TestLoadVersionMismatch(t *testing.T) {
	data := []byte(`versions:
  config: "2.0"
`)
	_, err := cfg1.Load(data)
	assert.ErrorContains(t, err, "expecting version v1.0")

	data = []byte(`versions:
  config: "1.1"
`)
	_, err = cfg1.Load(data)
	assert.ErrorContains(t, err, "unsupported minor version")
}

func TestLoadOutOfRangeTTL(t *testing.T) {
	data := []byte(`usecases:
  releases:
    current-version-ttl: 10m
    current-version-ttl-maximum: 1m
versions:
  config: "1.0"
`)
	_, err := cfg1.Load(data)
	assert.ErrorContains(t, err, "value is greater than max")
}

func TestClone(t *testing.T) {
	data := []byte(`database:
  host: db.example.org
  port: 5432
  name: releases
  user: relweb
  pass-dir: /etc/relweb
gin:
  logger: true
usecases:
  releases:
    current-version-ttl: 10m
versions:
  config: "1.0"
`)
	c, err := cfg1.Load(data)
	require.NoError(t, err)

	cc := c.Clone()
	require.NotNil(t, cc.Usecases.Releases.CurrentVersionTTL)
	*cc.Usecases.Releases.CurrentVersionTTL =
		settings.Duration(time.Second)
	assert.Equal(
		t,
		settings.Duration(10*time.Minute),
		*c.Usecases.Releases.CurrentVersionTTL,
	)
	*cc.Gin.Logger = false
	assert.True(t, *c.Gin.Logger)
	assert.Equal(t, c.Database, cc.Database)
}
