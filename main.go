// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/mscottuk/metagit/internal/cmd/profile"
	"github.com/mscottuk/metagit/internal/cmd/root"
)

// run executes the root command and reports the process exit status. It is
// a separate function so the profiling shutdown runs before os.Exit.
func run() int {
	defer func() {
		if err := profile.StopProfiling(); err != nil {
			fmt.Fprintf(os.Stderr, "unable to stop profiling: %s\n", err.Error())
		}
	}()

	if err := root.New().Execute(); err != nil {
		return 1
	}

	return 0
}

func main() {
	os.Exit(run())
}
