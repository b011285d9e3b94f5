// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"bytes"
	"fmt"
	"strings"
)

// TreeItem is a single named entry in a Git tree, together with whether it
// names a subtree (as opposed to a blob). The Tree Synthesizer uses this to
// preserve sibling entries bit-identically when it rewrites one entry of a
// tree.
type TreeItem struct {
	ID     Hash
	IsTree bool
}

// EmptyTree returns the ID of the empty tree object. The Provenance Walker
// diffs a root commit's tree against this to treat every entry in that
// commit as added.
func (r *Repository) EmptyTree() (Hash, error) {
	treeID, err := r.git("hash-object", "-t", "tree", "--stdin").run()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to hash empty tree: %w", err)
	}

	hash, err := NewHash(treeID)
	if err != nil {
		return ZeroHash, fmt.Errorf("empty tree has invalid Git ID: %w", err)
	}

	return hash, nil
}

// GetTreeEntries returns the immediate entries of treeID, keyed by name,
// along with whether each entry is itself a tree, so unmodified entries can
// be re-emitted with their original mode.
func (r *Repository) GetTreeEntries(treeID Hash) (map[string]TreeItem, error) {
	// From Git 2.36, we can use --format here. However, it appears a not
	// insignificant number of developers are still on Git 2.34.1, a side effect
	// of being on Ubuntu 22.04. 22.04 is still widely used in WSL2 environments.
	// So, we're not using --format and parsing the default output instead.
	stdOut, err := r.git("ls-tree", treeID.String()).run()
	if err != nil {
		return nil, fmt.Errorf("unable to enumerate items in tree '%s': %w", treeID.String(), err)
	}

	items := map[string]TreeItem{}
	if stdOut == "" {
		return items, nil
	}

	for _, entry := range strings.Split(stdOut, "\n") {
		// <mode> SP <type> SP <object> TAB <file>
		fields := strings.SplitN(entry, " ", 3)
		if len(fields) != 3 {
			continue
		}
		objType := fields[1]
		rest := strings.SplitN(fields[2], "\t", 2)
		if len(rest) != 2 {
			continue
		}

		hash, err := NewHash(rest[0])
		if err != nil {
			return nil, fmt.Errorf("invalid Git ID '%s' for path '%s': %w", rest[0], rest[1], err)
		}

		items[rest[1]] = TreeItem{ID: hash, IsTree: objType == "tree"}
	}

	return items, nil
}

// WriteTree creates a single tree object directly from the supplied entries,
// without recursing into subtrees. Callers (the Tree Synthesizer) are
// responsible for building intermediate trees bottom-up and passing in
// already-written subtree IDs; this is the single-level primitive
// `git mktree` provides. Blob entries use regular-file mode; generic tree
// creation with other modes is left to invocations of the Git binary by the
// user.
func (r *Repository) WriteTree(entries map[string]TreeItem) (Hash, error) {
	input := &bytes.Buffer{}
	for name, item := range entries {
		mode := "100644"
		objType := "blob"
		if item.IsTree {
			mode = "040000"
			objType = "tree"
		}
		fmt.Fprintf(input, "%s %s %s\t%s\n", mode, objType, item.ID.String(), name)
	}

	stdOut, err := r.git("mktree").stdin(input.Bytes()).run()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to write Git tree: %w", err)
	}

	treeID, err := NewHash(stdOut)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid tree ID: %w", err)
	}

	return treeID, nil
}
