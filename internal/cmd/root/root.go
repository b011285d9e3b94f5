// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package root

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/mscottuk/metagit/internal/cmd/copy"
	"github.com/mscottuk/metagit/internal/cmd/get"
	"github.com/mscottuk/metagit/internal/cmd/getvalue"
	"github.com/mscottuk/metagit/internal/cmd/list"
	"github.com/mscottuk/metagit/internal/cmd/log"
	"github.com/mscottuk/metagit/internal/cmd/ls"
	"github.com/mscottuk/metagit/internal/cmd/profile"
	"github.com/mscottuk/metagit/internal/cmd/set"
	"github.com/mscottuk/metagit/internal/cmd/setvalue"
	"github.com/mscottuk/metagit/internal/cmd/version"
	"github.com/mscottuk/metagit/internal/display"
	"github.com/mscottuk/metagit/internal/metadata"
	"github.com/spf13/cobra"
)

type options struct {
	noColor           bool
	verbose           bool
	metadataRef       string
	profile           bool
	cpuProfileFile    string
	memoryProfileFile string
}

func (o *options) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(
		&o.noColor,
		"no-color",
		false,
		"turn off colored output",
	)

	cmd.PersistentFlags().BoolVarP(
		&o.verbose,
		"verbose",
		"v",
		false,
		"enable verbose logging",
	)

	cmd.PersistentFlags().StringVarP(
		&o.metadataRef,
		"metadataref",
		"m",
		metadata.DefaultRef,
		"Git reference used to store metadata",
	)

	cmd.PersistentFlags().BoolVar(
		&o.profile,
		"profile",
		false,
		"enable CPU and memory profiling",
	)

	cmd.PersistentFlags().StringVar(
		&o.cpuProfileFile,
		"profile-CPU-file",
		"cpu.prof",
		"file to store CPU profile",
	)

	cmd.PersistentFlags().StringVar(
		&o.memoryProfileFile,
		"profile-memory-file",
		"memory.prof",
		"file to store memory profile",
	)
}

func (o *options) PreRunE(_ *cobra.Command, _ []string) error {
	output := os.Stdout
	isTerminal := isatty.IsTerminal(output.Fd()) || isatty.IsCygwinTerminal(output.Fd())
	if o.noColor || !isTerminal {
		display.DisableColor()
	} else {
		display.EnableColor()
		if runtime.GOOS != "windows" {
			os.Setenv("PAGER", "less")
			os.Setenv("LESS", "-R")
		}
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if o.profile {
		return profile.StartProfiling(o.cpuProfileFile, o.memoryProfileFile)
	}

	return nil
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:               "metagit",
		Short:             "Attach versioned metadata to objects in a Git repository",
		Long:              `metagit attaches mutable JSON metadata to the blobs and trees of a Git repository's data history, storing it on a separate metadata reference so that the data history itself is never touched.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: o.PreRunE,
	}

	o.AddFlags(cmd)

	cmd.AddCommand(get.New())
	cmd.AddCommand(set.New())
	cmd.AddCommand(getvalue.New())
	cmd.AddCommand(setvalue.New())
	cmd.AddCommand(list.New())
	cmd.AddCommand(log.New())
	cmd.AddCommand(copy.New())
	cmd.AddCommand(ls.New())
	cmd.AddCommand(version.New())

	return cmd
}
