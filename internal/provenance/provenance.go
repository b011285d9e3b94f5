// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package provenance implements the backward walk over the data commit
// graph that locates the earliest ancestor commit in which a given object
// first appeared at a logical path. It refuses to cross merge commits:
// metadata inheritance across merge bases is undefined.
package provenance

import (
	"errors"
	"fmt"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metaerrors"
)

// ErrNotFound is returned when the object was never added along the
// single-parent ancestor chain walked.
var ErrNotFound = errors.New("object not found in commit ancestry")

// FindFirstCommitWithBlob walks startCommit's parents, comparing each
// commit's root tree against its parent's root tree (or the empty tree, for
// a commit with no parents) for an added entry whose new object ID equals
// blobID. It returns the first commit, walking backward, at which the
// addition is found. The walk is an explicit loop, so stack depth does not
// grow with the commit-chain length.
func FindFirstCommitWithBlob(repo *gitinterface.Repository, blobID gitinterface.Hash, startCommit gitinterface.Hash) (gitinterface.Hash, error) {
	current := startCommit

	for {
		parents, err := repo.GetCommitParentIDs(current)
		if err != nil {
			return gitinterface.ZeroHash, fmt.Errorf("unable to read parents of '%s': %w", current.String(), err)
		}

		if len(parents) > 1 {
			return gitinterface.ZeroHash, fmt.Errorf("%w: %w at commit '%s'", metaerrors.ErrMetadataReadError, metaerrors.ErrMergesNotSupported, current.String())
		}

		currentTree, err := repo.GetCommitTreeID(current)
		if err != nil {
			return gitinterface.ZeroHash, err
		}

		var oldTree gitinterface.Hash
		if len(parents) == 1 {
			oldTree, err = repo.GetCommitTreeID(parents[0])
			if err != nil {
				return gitinterface.ZeroHash, err
			}
		} else {
			oldTree, err = repo.EmptyTree()
			if err != nil {
				return gitinterface.ZeroHash, err
			}
		}

		diff, err := repo.DiffTrees(oldTree, currentTree)
		if err != nil {
			return gitinterface.ZeroHash, err
		}

		for _, entry := range diff {
			if entry.Status == gitinterface.DiffStatusAdded && entry.NewID == blobID {
				return current, nil
			}
		}

		if len(parents) == 0 {
			return gitinterface.ZeroHash, ErrNotFound
		}

		current = parents[0]
	}
}

// FindFirstCommitWithTree walks startCommit's parents looking for the
// earliest ancestor in which path still resolves to a tree. The caller must
// already know path resolves to a tree at startCommit; this only walks
// backward from there. It returns the commit at which path was introduced as
// a tree (or stopped being one kind of object and became another).
//
// Provenance for directories is path-based: a directory is considered to
// carry the same metadata across commits as long as the path continues to
// name a tree, regardless of whether the tree's contents changed.
func FindFirstCommitWithTree(repo *gitinterface.Repository, path string, startCommit gitinterface.Hash) (gitinterface.Hash, error) {
	current := startCommit

	for {
		parents, err := repo.GetCommitParentIDs(current)
		if err != nil {
			return gitinterface.ZeroHash, fmt.Errorf("unable to read parents of '%s': %w", current.String(), err)
		}

		if len(parents) > 1 {
			return gitinterface.ZeroHash, fmt.Errorf("%w: %w at commit '%s'", metaerrors.ErrMetadataReadError, metaerrors.ErrMergesNotSupported, current.String())
		}

		if len(parents) == 0 {
			return current, nil
		}

		parent := parents[0]
		resolved, err := repo.ResolveRevisionPath(parent.String() + ":" + path)
		if err != nil {
			if errors.Is(err, gitinterface.ErrObjectNotFound) {
				return current, nil
			}
			return gitinterface.ZeroHash, err
		}

		if resolved.Kind != gitinterface.KindTree {
			return current, nil
		}

		current = parent
	}
}

// FindFirstCommitWithObject resolves the object at path in startCommit and
// dispatches to the blob or tree walk.
func FindFirstCommitWithObject(repo *gitinterface.Repository, startCommit gitinterface.Hash, path string) (gitinterface.Hash, error) {
	resolved, err := repo.ResolveRevisionPath(startCommit.String() + ":" + path)
	if err != nil {
		if errors.Is(err, gitinterface.ErrObjectNotFound) {
			return gitinterface.ZeroHash, fmt.Errorf("%w: %s does not exist in %s", metaerrors.ErrDataNotFound, path, startCommit.String())
		}
		return gitinterface.ZeroHash, err
	}

	switch resolved.Kind {
	case gitinterface.KindBlob:
		commit, err := FindFirstCommitWithBlob(repo, resolved.ID, startCommit)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return gitinterface.ZeroHash, fmt.Errorf("%w: %s", metaerrors.ErrDataNotFound, path)
			}
			return gitinterface.ZeroHash, err
		}
		return commit, nil
	case gitinterface.KindTree:
		return FindFirstCommitWithTree(repo, path, startCommit)
	default:
		return gitinterface.ZeroHash, fmt.Errorf("%w: %s is neither a blob nor a tree", metaerrors.ErrDataNotFound, path)
	}
}
