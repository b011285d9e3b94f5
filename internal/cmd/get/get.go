// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package get implements `metagit get`, which prints the raw metadata blob
// identified by a path expression to standard output.
package get

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

	p, err := metapath.Parse(args[0], metapath.WithRepository(repo))
	if err != nil {
		return err
	}

	payload, err := metadata.NewEngine(repo, metadataRef).Read(p)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(os.Stdout, string(payload))
	return err
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "get <path>",
		Short:             "Print the metadata blob for a path",
		Args:              cobra.ExactArgs(1),
		RunE:              common.Wrap(o.Run),
		DisableAutoGenTag: true,
	}
	o.AddFlags(cmd)

	return cmd
}
