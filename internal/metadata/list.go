// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metaerrors"
	"github.com/mscottuk/metagit/internal/metapath"
)

// ListEntry is one data commit carrying metadata that matches the requested
// data object, together with whether the requested revision can reach it
// via ancestry.
type ListEntry struct {
	DataCommitID gitinterface.Hash
	Inheritable  bool
	ObjectKind   gitinterface.ObjectKind
	ObjectID     gitinterface.Hash
}

// ListResult classifies a stream's entries: those whose data commit's
// object matches the requested data object (split further by whether that
// commit is inheritable from the requested revision), and those for other
// versions of the same logical path.
type ListResult struct {
	RequestedCommit gitinterface.Hash
	Matching        []ListEntry
	Other           []gitinterface.Hash
}

// List resolves the metadata stream tree for the request's (path, stream)
// and, for each child entry (named by a data commit id), resolves that
// commit and the object at the requested logical path within it,
// classifying it as matching the requested data object or as another
// version.
func (e *Engine) List(p *metapath.Path) (*ListResult, error) {
	requestedCommit, err := e.resolveDataCommit(p)
	if err != nil {
		return nil, err
	}

	result := &ListResult{RequestedCommit: requestedCommit}

	treeID, exists, err := e.metadataHeadTree()
	if err != nil {
		return nil, err
	}
	if !exists {
		return result, nil
	}

	streamPath := streamTreePath(p.Logical, p.Stream)
	resolved, err := e.repo.ResolveRevisionPath(treeID.String() + ":" + streamPath)
	if err != nil {
		if errors.Is(err, gitinterface.ErrObjectNotFound) {
			return result, nil
		}
		return nil, err
	}
	if resolved.Kind != gitinterface.KindTree {
		return nil, fmt.Errorf("%w: %s is not a metadata stream", metaerrors.ErrMetadataReadError, streamPath)
	}

	entries, err := e.repo.GetTreeEntries(resolved.ID)
	if err != nil {
		return nil, err
	}

	requestedObj, err := e.repo.ResolveRevisionPath(requestedCommit.String() + ":" + p.Logical)
	if err != nil {
		if errors.Is(err, gitinterface.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s does not exist in %s", metaerrors.ErrDataNotFound, p.Logical, requestedCommit.String())
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entryCommit, err := gitinterface.NewHash(name)
		if err != nil {
			continue // not a data commit id; not something this system wrote
		}

		entryObj, err := e.repo.ResolveRevisionPath(entryCommit.String() + ":" + p.Logical)
		if err != nil {
			if errors.Is(err, gitinterface.ErrObjectNotFound) {
				result.Other = append(result.Other, entryCommit)
				continue
			}
			return nil, err
		}

		matches := entryObj.Kind == requestedObj.Kind &&
			(entryObj.Kind != gitinterface.KindBlob || entryObj.ID == requestedObj.ID)

		if !matches {
			result.Other = append(result.Other, entryCommit)
			continue
		}

		inheritable, err := e.repo.KnowsCommit(requestedCommit, entryCommit)
		if err != nil {
			return nil, err
		}

		result.Matching = append(result.Matching, ListEntry{
			DataCommitID: entryCommit,
			Inheritable:  inheritable,
			ObjectKind:   entryObj.Kind,
			ObjectID:     entryObj.ID,
		})
	}

	return result, nil
}
