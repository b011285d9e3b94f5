// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"errors"
	"path"
	"sort"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metapath"
)

// LogEntry is one data commit in the log walk, annotated with the stream
// names that carry metadata for the request's logical path at that commit.
type LogEntry struct {
	Commit  gitinterface.Hash
	Streams []string
}

// LogResult is the full output of a log walk.
type LogResult struct {
	Entries []LogEntry
}

// Log walks the data revision's ancestors in time order and, for each
// commit, reports which streams under the request's logical path have
// metadata attached at that commit.
func (e *Engine) Log(p *metapath.Path) (*LogResult, error) {
	start, err := e.resolveDataCommit(p)
	if err != nil {
		return nil, err
	}

	streamEntries, err := e.streamEntrySets(p.Logical)
	if err != nil {
		return nil, err
	}

	commits, err := e.repo.GetCommitsInTimeOrder(start)
	if err != nil {
		return nil, err
	}

	result := &LogResult{}
	for _, commit := range commits {
		var streams []string
		for stream, members := range streamEntries {
			if members[commit.String()] {
				streams = append(streams, stream)
			}
		}
		sort.Strings(streams)
		result.Entries = append(result.Entries, LogEntry{Commit: commit, Streams: streams})
	}

	return result, nil
}

// streamEntrySets returns, for each stream under logicalPath's metadata
// node, the set of data commit ids it carries metadata for.
func (e *Engine) streamEntrySets(logicalPath string) (map[string]map[string]bool, error) {
	treeID, exists, err := e.metadataHeadTree()
	if err != nil {
		return nil, err
	}
	if !exists {
		return map[string]map[string]bool{}, nil
	}

	nodePath := path.Join(logicalPath, Sentinel)
	resolved, err := e.repo.ResolveRevisionPath(treeID.String() + ":" + nodePath)
	if err != nil {
		if errors.Is(err, gitinterface.ErrObjectNotFound) {
			return map[string]map[string]bool{}, nil
		}
		return nil, err
	}
	if resolved.Kind != gitinterface.KindTree {
		return map[string]map[string]bool{}, nil
	}

	streams, err := e.repo.GetTreeEntries(resolved.ID)
	if err != nil {
		return nil, err
	}

	sets := make(map[string]map[string]bool, len(streams))
	for name, item := range streams {
		if !item.IsTree {
			continue
		}
		entries, err := e.repo.GetTreeEntries(item.ID)
		if err != nil {
			return nil, err
		}
		members := make(map[string]bool, len(entries))
		for entryName := range entries {
			members[entryName] = true
		}
		sets[name] = members
	}

	return sets, nil
}
