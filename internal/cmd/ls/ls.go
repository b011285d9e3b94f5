// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package ls implements `metagit ls`, which prints the metadata streams
// attached to a path, one per line.
package ls

import (
	"fmt"
	"os"

	"github.com/mscottuk/metagit/internal/cmd/common"
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

	streams, err := metadata.NewEngine(repo, metadataRef).ListStreams(p.Logical)
	if err != nil {
		return err
	}

	for _, stream := range streams {
		if _, err := fmt.Fprintln(os.Stdout, stream); err != nil {
			return err
		}
	}

	return nil
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "ls [path]",
		Short:             "List the metadata streams attached to a path",
		Args:              cobra.MaximumNArgs(1),
		RunE:              common.Wrap(o.Run),
		DisableAutoGenTag: true,
	}
	o.AddFlags(cmd)

	return cmd
}
