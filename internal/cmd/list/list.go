// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package list implements `metagit list`, which shows every data commit a
// metadata stream carries entries for, classified against the requested data
// revision.
package list

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

	result, err := metadata.NewEngine(repo, metadataRef).List(p)
	if err != nil {
		return err
	}

	return display.List(repo, result, p.Logical, display.NewDisplayWriter(os.Stdout))
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "list [path]",
		Short:             "List the data commits carrying metadata for a path and stream",
		Args:              cobra.MaximumNArgs(1),
		RunE:              common.Wrap(o.Run),
		DisableAutoGenTag: true,
	}
	o.AddFlags(cmd)

	return cmd
}
