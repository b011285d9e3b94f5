// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package set implements `metagit set`, which writes the contents of a file
// as the metadata blob for a path expression.
package set

import (
	"os"

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
		"overwrite a non-tree entry blocking the metadata path",
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

	p, err := metapath.Parse(args[0], metapath.WithRepository(repo))
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	return metadata.NewEngine(repo, metadataRef).Write(p, payload, o.force)
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "set <path> <file>",
		Short:             "Write a file's contents as the metadata blob for a path",
		Args:              cobra.ExactArgs(2),
		RunE:              common.Wrap(o.Run),
		DisableAutoGenTag: true,
	}
	o.AddFlags(cmd)

	return cmd
}
