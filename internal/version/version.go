// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package version //nolint:revive

import "runtime/debug"

// version is the fallback for source builds; release builds overwrite it
// via -ldflags.
var version = "devel"

// GetVersion prefers the module version stamped into the binary's build
// info, falling back to the ldflags value when the binary was built from
// source.
func GetVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return version
	}

	return info.Main.Version
}
