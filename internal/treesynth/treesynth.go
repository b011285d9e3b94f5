// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package treesynth rebuilds the enclosing tree hierarchy on the metadata
// reference after a single leaf entry changes. It never mutates an existing
// Git object; every level from the changed leaf up to the root is rewritten
// fresh, reusing unaffected sibling entries from the previous head.
package treesynth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metaerrors"
)

// WriteTreeHierarchy writes a new leaf entry at path (slash-separated,
// relative to the tree root) into the tree named by baseTreeID, creating or
// reusing intermediate trees as needed, and returns the ID of the new root
// tree. The leaf's entry mode follows its object kind in the store: blob
// mode for a blob, tree mode for a tree; intermediate levels are always
// trees.
//
// If a path component along the way exists but names something other than a
// tree, synthesis fails unless force is set, in which case that component is
// rebuilt from an empty tree, discarding whatever it used to hold.
//
// The walk is an explicit bottom-to-top loop over path segments, so stack
// depth does not grow with path depth.
func WriteTreeHierarchy(repo *gitinterface.Repository, baseTreeID gitinterface.Hash, path string, leafObjectID gitinterface.Hash, force bool) (gitinterface.Hash, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return gitinterface.ZeroHash, fmt.Errorf("%w: empty path passed to tree synthesizer", metaerrors.ErrParameterError)
	}

	leaf, err := repo.ResolveByID(leafObjectID)
	if err != nil {
		return gitinterface.ZeroHash, fmt.Errorf("%w: leaf object '%s' could not be resolved: %w", metaerrors.ErrMetadataWriteError, leafObjectID.String(), err)
	}

	leafID := leaf.ID
	leafIsTree := leaf.Kind == gitinterface.KindTree

	for i := len(segments) - 1; i >= 0; i-- {
		name := segments[i]
		prefix := strings.Join(segments[:i], "/")

		entries, err := existingEntries(repo, baseTreeID, prefix, force)
		if err != nil {
			return gitinterface.ZeroHash, err
		}

		entries[name] = gitinterface.TreeItem{ID: leafID, IsTree: leafIsTree}

		newTreeID, err := repo.WriteTree(entries)
		if err != nil {
			return gitinterface.ZeroHash, fmt.Errorf("%w: unable to write tree for '%s': %w", metaerrors.ErrMetadataWriteError, prefix, err)
		}

		leafID = newTreeID
		leafIsTree = true
	}

	return leafID, nil
}

// existingEntries returns the current entries at prefix within baseTreeID,
// or an empty map if baseTreeID is the zero hash (no metadata reference yet)
// or prefix does not yet exist as a tree. If prefix exists but names
// something other than a tree, it errors unless force is set, in which case
// it silently starts over from an empty tree.
func existingEntries(repo *gitinterface.Repository, baseTreeID gitinterface.Hash, prefix string, force bool) (map[string]gitinterface.TreeItem, error) {
	if baseTreeID.IsZero() {
		return map[string]gitinterface.TreeItem{}, nil
	}

	treeID := baseTreeID
	if prefix != "" {
		resolved, err := repo.ResolveRevisionPath(baseTreeID.String() + ":" + prefix)
		if err != nil {
			if errors.Is(err, gitinterface.ErrObjectNotFound) {
				return map[string]gitinterface.TreeItem{}, nil
			}
			return nil, err
		}
		if resolved.Kind != gitinterface.KindTree {
			if force {
				return map[string]gitinterface.TreeItem{}, nil
			}
			return nil, fmt.Errorf("%w: '%s' exists and is not a directory", metaerrors.ErrMetadataWriteError, prefix)
		}
		treeID = resolved.ID
	}

	entries, err := repo.GetTreeEntries(treeID)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read existing entries at '%s': %w", metaerrors.ErrMetadataWriteError, prefix, err)
	}

	return entries, nil
}
