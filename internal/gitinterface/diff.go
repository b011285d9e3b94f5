// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"fmt"
	"strings"
)

// DiffStatus is the single-letter status `git diff --raw` reports for a
// changed tree entry.
type DiffStatus byte

const (
	DiffStatusAdded      DiffStatus = 'A'
	DiffStatusDeleted    DiffStatus = 'D'
	DiffStatusModified   DiffStatus = 'M'
	DiffStatusTypeChange DiffStatus = 'T'
	DiffStatusCopied     DiffStatus = 'C'
	DiffStatusRenamed    DiffStatus = 'R'
)

// TreeDiffEntry is one changed path between two trees, with swap
// conventions. This is consumed by the Provenance Walker's blob search,
// which asks "which entries were added going from oldTree to newTree".
type TreeDiffEntry struct {
	Path   string
	Status DiffStatus
	NewID  Hash
}

// DiffTrees computes the tree-to-tree diff between oldTreeID and newTreeID,
// reporting each changed path's status and new object ID. The provenance
// walker diffs a commit's tree against its parent's tree (or the empty
// tree, for a root commit) to find where a blob was first added.
func (r *Repository) DiffTrees(oldTreeID, newTreeID Hash) ([]TreeDiffEntry, error) {
	stdOut, err := r.git("diff", "--raw", "--no-abbrev", "--no-renames", oldTreeID.String(), newTreeID.String()).run()
	if err != nil {
		return nil, fmt.Errorf("unable to diff trees '%s' and '%s': %w", oldTreeID.String(), newTreeID.String(), err)
	}

	if stdOut == "" {
		return nil, nil
	}

	entries := []TreeDiffEntry{}
	for _, line := range strings.Split(stdOut, "\n") {
		// :<old-mode> <new-mode> <old-sha> <new-sha> <status>\t<path>
		line = strings.TrimPrefix(line, ":")
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			continue
		}

		meta := strings.Fields(fields[0])
		if len(meta) != 5 {
			continue
		}

		newID, err := NewHash(meta[3])
		if err != nil {
			return nil, fmt.Errorf("invalid new object ID in diff entry for '%s': %w", fields[1], err)
		}

		entries = append(entries, TreeDiffEntry{
			Path:   fields[1],
			Status: DiffStatus(meta[4][0]),
			NewID:  newID,
		})
	}

	return entries, nil
}
