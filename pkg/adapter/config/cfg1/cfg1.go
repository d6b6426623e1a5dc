// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// When trying to serialize and write out settings, the latest known
// minor and patch version will be used since older versions (with the
// same major version) can ignore the extra fields too.
package cfg1

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config/comment"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config/settings"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config/vers"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/restful/gin"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/repo"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/usecase/releasesuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the version of Config struct.
var Version = model.Version{
	Major: Major, Minor: Minor, Micro: Patch,
	Status: model.StatusFinal,
}

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Site     Site     // docs and media file server URLs
	Usecases Usecases // Configuration settings for supported use cases

	// Vers contains the configuration file format version string
	// corresponding to this Config instance.
	Vers vers.Config `yaml:",inline"`

	// Comments contains the YAML comment lines which are written right
	// before the actual settings lines, aka head-comments.
	// These comments are preserved for top-level settings and their
	// children sequence and mapping YAML nodes. The Comments may be nil
	// which will be ignored, or may be poppulated with some comments
	// which will be preserved during a marshaling operation, so the
	// comments of a loaded config file survive a load and store cycle.
	Comments *comment.Comment `yaml:"-"`
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like releases1_0_0
	User    string // database role name for the connections
	PassDir string `yaml:"pass-dir"` // path of the passwords dir
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(ctx context.Context) (
	*postgres.Pool, error,
) {
	p, err := c.Database.ConnectionPool(ctx)
	if err != nil {
		return nil, fmt.Errorf(
			"%#v.ConnectionPool: %w", c.Database, err,
		)
	}
	return p, nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Config instance.
func (c *Config) ConnectionInfo() (dbName, host string, port int) {
	return c.Database.ConnectionInfo()
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// The .pgpass file in the d.PassDir folder is checked which should
// conform with the pgpass format with lines like this:
//
//	host:port:dbname:user:password
//
// If a database connection could be established, created pool and nil
// error will be returned.
func (d Database) ConnectionPool(ctx context.Context) (
	*postgres.Pool, error,
) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("connecting with %q: %w", path, err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, user name, database name, and password value. These items are
// directly taken from the `d` settings, but the password value which is
// read from the given `path` file. Returned URL has the postgresql
// scheme. The `path` file may contain empty or `#`-commented lines in
// addition to the password specifying lines which should conform with
// the pgpass files format with lines like this:
//
//	host:port:dbname:user:password
//
// If the `path` file could be read and a password for the configured
// user could be identified, a URL and a nil error will be returned.
// Otherwise, returned string will be empty and error will describe the
// wrapped error condition.
func (d Database) ConnectionURL(path string) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, d.User)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(d.User, pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized. Missing settings can be detected as nil
// pointers and filled by their default values during the validation
// and normalization phase.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Site contains the URLs of the external documentation site and the
// media file server which are used when computing the release notes
// and download redirection targets.
// Fields are defined as pointers, so missing settings can be detected
// and left to the use cases layer defaults.
type Site struct {
	// DocsURL is the base URL of the documentation site, like
	// "https://docs.djangoproject.com".
	DocsURL *string `yaml:"docs-url"`
	// MediaURL is the base URL of the media file server which stores
	// the uploaded release artifacts, like "https://media.djangoproject.com/".
	MediaURL *string `yaml:"media-url"`
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Releases Releases // release catalog use cases related settings
}

// Releases contains the configuration settings for the releases use
// cases. Fields are defined as pointers, so it is possible to detect
// if they are or are not initialized, leaving the defaults selection
// to the use cases layer.
type Releases struct {
	// CurrentVersionTTL indicates how long a computed current version
	// may be served from the cache before consulting the database
	// again.
	CurrentVersionTTL *settings.Duration `yaml:"current-version-ttl"`
	// MinCurrentVersionTTL is the inclusive minimum acceptable value
	// for the CurrentVersionTTL setting.
	// A missing value indicates that there is no lower bound.
	MinCurrentVersionTTL *settings.Duration `yaml:"current-version-ttl-minimum"`
	// MaxCurrentVersionTTL is the inclusive maximum acceptable value
	// for the CurrentVersionTTL setting.
	// A missing value indicates that there is no upper bound.
	MaxCurrentVersionTTL *settings.Duration `yaml:"current-version-ttl-maximum"`
}

// NewReleasesUseCase instantiates a new releases use case based on the
// settings in the `c` struct.
func (c *Config) NewReleasesUseCase(
	p repo.Pool, r repo.Releases,
) (*releasesuc.UseCase, error) {
	opts := make([]releasesuc.Option, 0, 3)
	if d := c.Usecases.Releases.CurrentVersionTTL; d != nil {
		opts = append(opts, releasesuc.WithCurrentVersionCacheTTL(
			time.Duration(*d),
		))
	}
	if u := c.Site.DocsURL; u != nil {
		opts = append(opts, releasesuc.WithDocsBaseURL(*u))
	}
	if u := c.Site.MediaURL; u != nil {
		opts = append(opts, releasesuc.WithMediaBaseURL(*u))
	}
	return releasesuc.New(p, r, opts...)
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable (for example
// the major version which is reported by data settings must match
// with number 1 which is the major version of this config package).
//
// If some settings should be overridden by environment variables,
// this method is the proper place for that replacement, so the Load
// method provides those settings which are fixed by each execution.
func Load(data []byte) (*Config, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if l := len(n.Content); l != 1 {
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	c := &Config{}
	if err := n.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding yaml node: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	cmnts, err := comment.LoadFrom(n.Content[0])
	if err != nil {
		return nil, fmt.Errorf("parsing comments: %w", err)
	}
	c.Comments = cmnts
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	// No need to check for c.Site or c.Usecases.Releases nil fields
	// because their defaults belong to the use cases layer.
	if err := settings.VerifyRange(
		&c.Usecases.Releases.CurrentVersionTTL,
		c.Usecases.Releases.MinCurrentVersionTTL,
		c.Usecases.Releases.MaxCurrentVersionTTL,
	); err != nil {
		return fmt.Errorf(
			"VerifyRange(current version ttl=%v, minb=%v, maxb=%v): %w",
			err.Value,
			c.Usecases.Releases.MinCurrentVersionTTL,
			c.Usecases.Releases.MaxCurrentVersionTTL,
			err,
		)
	}
	return nil
}

// Marshalled struct contains a field for each one of the Config struct
// fields. The field names may be different for simplicity, but the
// yaml tag of fields are chosen to have consistent names after the
// serialization operation. The types of those fields are the same if
// their default serialization format is acceptable, otherwise, they
// will be serialized manually using the Marshal method and their
// target primitive types will be used in the Marshalled struct.
type Marshalled struct {
	Database Database
	Gin      Gin
	Site     Site
	Usecases struct {
		Releases struct {
			TTL    *string `yaml:"current-version-ttl,omitempty"`
			MinTTL *string `yaml:"current-version-ttl-minimum,omitempty"`
			MaxTTL *string `yaml:"current-version-ttl-maximum,omitempty"`
		}
	}
	Vers *vers.Marshalled `yaml:",inline"`
}

// MarshalYAML computes an instance of the Marshalled struct, as created
// by the Marshal method, so it may be marshalled instead of the `c`
// Config instance. This replacement makes it possible to substitute
// specific settings such as a slices of numbers in a vers.Config with
// their alternative primitive data types and have control on the final
// serialization result. Thereafter, it encodes *Marshalled as a yaml
// node instance and saves the preserved head `c.Comments` (if any) into
// the resulting *yaml.Node instance (and returns it as an interface{}).
//
// See the Marshal function for the reification details and how
// marshaling logic can be distributed among nested Config structs.
func (c *Config) MarshalYAML() (interface{}, error) {
	m := c.Marshal()
	n := &yaml.Node{}
	if err := n.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding *Marshalled as YAML: %w", err)
	}
	if err := c.Comments.SaveInto(n); err != nil {
		return nil, fmt.Errorf("saving YAML nodes comments: %w", err)
	}
	return n, nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents. The Marshalled and Config
// fields do correspond with each other with one difference. Any field
// which requires a specific MarshalYAML logic (and its default encoding
// logic into YAML format is not suitable) is replaced by a primitive
// data type, so it can contain the properly serialized version of that
// field.
//
// This Marshal method encodes and replaces fields which are defined in
// this package and recursively calls Marshal method on those fields
// which are defined in other packages. Therefore, the marshaling logic
// can be distributed among packages, near to the relevant data types
// (while MarshalYAML from the yaml.Marshaler interface is only called
// for the top-most object and is ignored for nested types).
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Database = c.Database
	m.Gin = c.Gin
	m.Site = c.Site
	m.Usecases.Releases.TTL =
		c.Usecases.Releases.CurrentVersionTTL.Marshal()
	m.Usecases.Releases.MinTTL =
		c.Usecases.Releases.MinCurrentVersionTTL.Marshal()
	m.Usecases.Releases.MaxTTL =
		c.Usecases.Releases.MaxCurrentVersionTTL.Marshal()
	m.Vers = c.Vers.Marshal()
	return m
}

// Clone creates a new instance of Config and initializes its fields
// based on the `c` fields. Pointers are renewed too, so changes in
// the returned Config instance and `c` stay independent.
func (c *Config) Clone() *Config {
	cc := &Config{
		Database: c.Database,
		Vers:     c.Vers,
	}
	settings.OverwriteUnconditionally(&cc.Gin.Logger, c.Gin.Logger)
	settings.OverwriteUnconditionally(&cc.Gin.Recovery, c.Gin.Recovery)
	settings.OverwriteUnconditionally(&cc.Site.DocsURL, c.Site.DocsURL)
	settings.OverwriteUnconditionally(&cc.Site.MediaURL, c.Site.MediaURL)
	settings.OverwriteUnconditionally(
		&cc.Usecases.Releases.CurrentVersionTTL,
		c.Usecases.Releases.CurrentVersionTTL,
	)
	settings.OverwriteUnconditionally(
		&cc.Usecases.Releases.MinCurrentVersionTTL,
		c.Usecases.Releases.MinCurrentVersionTTL,
	)
	settings.OverwriteUnconditionally(
		&cc.Usecases.Releases.MaxCurrentVersionTTL,
		c.Usecases.Releases.MaxCurrentVersionTTL,
	)
	return cc
}

// Version returns the version of this Config struct contents
// which its major version is equal to 1, while its minor and patch
// versions may correspond to the Minor and Patch constants or may
// describe an older version (if the minor version of the returned
// version was more recent than Minor constant, it could not be loaded
// by the Load function). By the way, no constraint exists on the patch
// version because it has no visible effect.
func (c *Config) Version() model.Version {
	return c.Vers.Versions.Config
}

// MajorVersion returns the major version of this Config instance.
// This value matches with the first component of the version which is
// returned by the Version method. However, the Version method returns
// the complete version as written in a configuration file, hence, it
// cannot be called without creating an instance of Config first. In
// contrast, this method only depends on the Config type and so can be
// called with a nil instance too.
func (c *Config) MajorVersion() uint {
	return Major
}
