// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/config"
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/db/postgres/releasesrp"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var asOf string

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Print the release classification as JSON",
	Long: `Print the release classification as JSON, listing the
current, preview, previous, long-term support, and unsupported release
groups. The classification is computed at the current date by default,
while the --as-of flag selects another reference date.`,
	RunE: classify,
	Args: cobra.NoArgs,
}

func classify(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	at := model.DateOf(time.Now())
	if asOf != "" {
		if err := at.UnmarshalText([]byte(asOf)); err != nil {
			return fmt.Errorf("parsing --as-of flag: %w", err)
		}
	}
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	uc, err := c.NewReleasesUseCase(p, releasesrp.New())
	if err != nil {
		return fmt.Errorf("creating releases use case: %w", err)
	}
	cl, err := uc.ClassifyAt(ctx, at)
	if err != nil {
		return fmt.Errorf("classifying releases: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cl); err != nil {
		return fmt.Errorf("encoding classification: %w", err)
	}
	return nil
}

func init() {
	classifyCmd.Flags().StringVar(
		&asOf, "as-of", "", "reference date as yyyy-mm-dd",
	)
	rootCmd.AddCommand(classifyCmd)
}
