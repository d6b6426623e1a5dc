// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres/releasesrp"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/repo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seedPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the releases table",
	Long: `Initialize the releases table in the database which its
connection information are read from the config file. The table will
be created only if it does not exist yet. When the --seed flag names a
YAML file, its release records will be imported in the same transaction
too, so a half-imported catalog may not be observed.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	var releases []model.Release
	if seedPath != "" {
		if releases, err = loadSeed(seedPath); err != nil {
			return fmt.Errorf("loading seed file: %w", err)
		}
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			tt := tx.(*postgres.Tx)
			if err := releasesrp.InitSchema(ctx, tt); err != nil {
				return err
			}
			return releasesrp.Create(ctx, tt, releases...)
		})
	})
	if err != nil {
		return fmt.Errorf("initializing releases table: %w", err)
	}
	return nil
}

// seedRelease is the YAML representation of one release record in a
// seed file.
type seedRelease struct {
	Version  string      `yaml:"version"`
	Date     *model.Date `yaml:"date"`
	EOMDate  *model.Date `yaml:"eom-date"`
	EOLDate  *model.Date `yaml:"eol-date"`
	Active   bool        `yaml:"active"`
	LTS      bool        `yaml:"lts"`
	Tarball  string      `yaml:"tarball"`
	Wheel    string      `yaml:"wheel"`
	Checksum string      `yaml:"checksum"`
}

func loadSeed(path string) ([]model.Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q file: %w", path, err)
	}
	var seed struct {
		Releases []seedRelease `yaml:"releases"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	rs := make([]model.Release, 0, len(seed.Releases))
	for _, sr := range seed.Releases {
		v, err := model.ParseVersion(sr.Version)
		if err != nil {
			return nil, err
		}
		rs = append(rs, model.Release{
			Version:  v,
			Date:     sr.Date,
			EOMDate:  sr.EOMDate,
			EOLDate:  sr.EOLDate,
			IsActive: sr.Active,
			IsLTS:    sr.LTS,
			Tarball:  sr.Tarball,
			Wheel:    sr.Wheel,
			Checksum: sr.Checksum,
		})
	}
	return rs, nil
}

func init() {
	initCmd.Flags().StringVar(
		&seedPath, "seed", "", "path of a YAML releases seed file",
	)
	dbCmd.AddCommand(initCmd)
}
