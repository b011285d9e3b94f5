// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile wires optional pprof CPU and heap profiling behind the
// root command's --profile flag.
package profile

import (
	"os"
	"runtime/pprof"
)

var stopFuncs []func() error

// StartProfiling begins CPU profiling into cpuPath and registers a heap
// snapshot into heapPath for when profiling stops.
func StartProfiling(cpuPath, heapPath string) error {
	cpuFile, err := os.Create(cpuPath)
	if err != nil {
		return err
	}

	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		cpuFile.Close() //nolint:errcheck
		return err
	}

	stopFuncs = append(stopFuncs, func() error {
		pprof.StopCPUProfile()
		return cpuFile.Close()
	})

	heapFile, err := os.Create(heapPath)
	if err != nil {
		return err
	}

	stopFuncs = append(stopFuncs, func() error {
		defer heapFile.Close() //nolint:errcheck
		return pprof.WriteHeapProfile(heapFile)
	})

	return nil
}

// StopProfiling flushes and closes any profiles StartProfiling set up. It
// is a no-op when profiling was never started.
func StopProfiling() error {
	for _, stop := range stopFuncs {
		if err := stop(); err != nil {
			return err
		}
	}

	stopFuncs = nil
	return nil
}
