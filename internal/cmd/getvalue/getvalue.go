// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package getvalue implements `metagit getvalue`, which parses the metadata
// blob for a path expression as JSON and prints its key/value pairs,
// optionally filtered by key and/or value.
package getvalue

import (
	"fmt"
	"os"

	"github.com/mscottuk/metagit/internal/cmd/common"
	"github.com/mscottuk/metagit/internal/metadata"
	"github.com/mscottuk/metagit/internal/metapath"
	"github.com/spf13/cobra"
)

type options struct {
	key   string
	value string
}

func (o *options) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&o.key,
		"key",
		"",
		"only print pairs with this key",
	)

	cmd.Flags().StringVar(
		&o.value,
		"value",
		"",
		"only print pairs with this value",
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

	pairs, err := metadata.NewEngine(repo, metadataRef).Values(p, o.key, o.value)
	if err != nil {
		return err
	}

	for _, pair := range pairs {
		if _, err := fmt.Fprintf(os.Stdout, "%-20s %-20v\n", pair.Key, pair.Value); err != nil {
			return err
		}
	}

	return nil
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "getvalue <path>",
		Short:             "Print the key/value pairs of the JSON metadata blob for a path",
		Args:              cobra.ExactArgs(1),
		RunE:              common.Wrap(o.Run),
		DisableAutoGenTag: true,
	}
	o.AddFlags(cmd)

	return cmd
}
