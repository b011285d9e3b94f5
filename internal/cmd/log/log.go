// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package log implements `metagit log`, which walks the data revision's
// ancestors in time order and annotates each commit with the metadata
// streams attached to the requested path at that commit.
package log

import (
	"os"

	"github.com/mscottuk/metagit/internal/cmd/common"
	"github.com/mscottuk/metagit/internal/display"
	"github.com/mscottuk/metagit/internal/metadata"
	"github.com/mscottuk/metagit/internal/metapath"
	"github.com/spf13/cobra"
)

type options struct{}

func (o *options) AddFlags(_ *cobra.Command) {}

func (o *options) Run(cmd *cobra.Command, args []string) error {
	repo, err := common.OpenRepository()
	if err != nil {
		return err
	}

	metadataRef, err := common.MetadataRef(cmd)
	if err != nil {
		return err
	}

	expr := ""
	if len(args) > 0 {
		expr = args[0]
	}

	p, err := metapath.Parse(expr, metapath.RequireSearch(false), metapath.WithRepository(repo))
	if err != nil {
		return err
	}

	result, err := metadata.NewEngine(repo, metadataRef).Log(p)
	if err != nil {
		return err
	}

	return display.Log(repo, result, display.NewDisplayWriter(os.Stdout))
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "log [path]",
		Short:             "Show which data commits carry metadata for a path",
		Args:              cobra.MaximumNArgs(1),
		RunE:              common.Wrap(o.Run),
		DisableAutoGenTag: true,
	}
	o.AddFlags(cmd)

	return cmd
}
