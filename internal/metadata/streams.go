// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"errors"
	"path"
	"sort"

	"github.com/mscottuk/metagit/internal/gitinterface"
)

// ListStreams returns the names of every metadata stream attached to
// logicalPath, i.e. the child entries of its metadata node
// (<logical_path>/<METADATA_SENTINEL>). A logical path with no metadata node
// at all returns an empty slice rather than an error, matching the "might
// not exist yet" nature of metadata in general.
func (e *Engine) ListStreams(logicalPath string) ([]string, error) {
	treeID, exists, err := e.metadataHeadTree()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	nodePath := path.Join(logicalPath, Sentinel)
	resolved, err := e.repo.ResolveRevisionPath(treeID.String() + ":" + nodePath)
	if err != nil {
		if errors.Is(err, gitinterface.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if resolved.Kind != gitinterface.KindTree {
		return nil, nil
	}

	entries, err := e.repo.GetTreeEntries(resolved.ID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for name, item := range entries {
		if item.IsTree {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}
