// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package copy implements `metagit copy`, which duplicates the metadata blob
// at one path expression to another. Both expressions must carry an explicit
// data revision.
package copy

import (
	"github.com/mscottuk/metagit/internal/cmd/common"
	"github.com/mscottuk/metagit/internal/metadata"
	"github.com/mscottuk/metagit/internal/metapath"
	"github.com/spf13/cobra"
)

type options struct {
	force bool
}

func (o *options) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(
		&o.force,
		"force",
		false,
		"overwrite a non-tree entry blocking the destination path",
	)
}

func (o *options) Run(cmd *cobra.Command, args []string) error {
	repo, err := common.OpenRepository()
	if err != nil {
		return err
	}

	metadataRef, err := common.MetadataRef(cmd)
	if err != nil {
		return err
	}

	src, err := metapath.Parse(args[0], metapath.WithRepository(repo))
	if err != nil {
		return err
	}

	dst, err := metapath.Parse(args[1], metapath.WithRepository(repo))
	if err != nil {
		return err
	}

	return metadata.NewEngine(repo, metadataRef).Copy(src, dst, o.force)
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "copy <source> <destination>",
		Short:             "Copy a metadata blob from one path and stream to another",
		Args:              cobra.ExactArgs(2),
		RunE:              common.Wrap(o.Run),
		DisableAutoGenTag: true,
	}
	o.AddFlags(cmd)

	return cmd
}
