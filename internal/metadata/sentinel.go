// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package metadata

import "github.com/google/uuid"

// Sentinel is the fixed, collision-resistant path segment that separates
// user path space from metadata subtree space. A name-based UUID keeps the
// value stable across processes and platforms without being checked into
// the repository anywhere; it must never change once metadata has been
// written with it.
var Sentinel = uuid.NewSHA1(uuid.NameSpaceX500, []byte("metadata")).String()
