// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package common collects the small pieces of scaffolding shared by every
// metagit subcommand: opening the host repository, resolving the metadata
// reference flag, and printing errors.
package common

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metadata"
	"github.com/mscottuk/metagit/internal/metaerrors"
	"github.com/spf13/cobra"
)

// OpenRepository discovers and opens the Git repository containing the
// current working directory, walking parent directories as needed.
func OpenRepository() (*gitinterface.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	repo, err := gitinterface.DiscoverRepository(cwd)
	if err != nil {
		return nil, fmt.Errorf("%w", metaerrors.ErrRepositoryNotFound)
	}
	if repo.IsBare() {
		return nil, metaerrors.ErrRepositoryUnsupported
	}

	slog.Debug("Using Git repository", "gitdir", repo.GetGitDir())

	return repo, nil
}

// MetadataRef reads the `-m/--metadataref` flag (inherited from the root
// command's persistent flags) and normalizes it to a full reference path.
func MetadataRef(cmd *cobra.Command) (string, error) {
	raw, err := cmd.Flags().GetString("metadataref")
	if err != nil {
		return "", err
	}
	return metadata.NormalizeRef(raw), nil
}

// Verbose reads the `-v/--verbose` flag (inherited from the root command's
// persistent flags).
func Verbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

// PrintError prints a non-verbose failure as a single line to stderr in the
// form `<ErrorKind>: <human-readable detail>`. Every
// metaerrors sentinel already carries its kind as a prefix of its message
// (e.g. "RepositoryNotFound: ..."), so for recognized kinds this is just
// err.Error(); unrecognized errors fall back to a generic "Error:" prefix.
// In verbose mode, it additionally prints a stack trace suitable for
// debugging.
func PrintError(err error, verbose bool) {
	if metaerrors.Kind(err) == "Error" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
	}
	if verbose {
		debug.PrintStack()
	}
}

// Wrap adapts a RunE-shaped function so its returned error is printed per
// PrintError before cobra's own (silenced) error handling takes over, and
// so any error still reaches main, which exits non-zero.
func Wrap(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			PrintError(err, Verbose(cmd))
			cmd.SilenceErrors = true
		}
		return err
	}
}
