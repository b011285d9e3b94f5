// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// DiscoverRepository loads the repository that contains startPath, walking
// up through ancestor directories until one is found or the filesystem
// root is reached. Unlike a bare `git rev-parse --git-dir`, it tolerates a
// startPath that does not yet exist on disk -- the caller may be naming a
// file that hasn't been created yet, as long as some enclosing directory
// is inside a repository.
func DiscoverRepository(startPath string) (*Repository, error) {
	searchPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}

	for {
		if _, statErr := os.Stat(searchPath); statErr == nil {
			break
		}

		parent := filepath.Dir(searchPath)
		if parent == searchPath {
			break
		}
		searchPath = parent
	}

	root := filepath.VolumeName(searchPath) + string(filepath.Separator)

	for {
		slog.Debug("Looking for Git repository", "path", searchPath)

		repo, err := LoadRepository(searchPath)
		if err == nil {
			return repo, nil
		}

		if searchPath == root || searchPath == "" {
			return nil, errors.New("could not find a Git repository")
		}

		parent := filepath.Dir(searchPath)
		if parent == searchPath {
			return nil, errors.New("could not find a Git repository")
		}
		searchPath = parent
	}
}
