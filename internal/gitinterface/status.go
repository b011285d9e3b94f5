// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"fmt"
	"strings"
)

// FileStatus holds the two porcelain-v1 status letters for one path: the
// staged (index) state and the worktree state.
// See https://git-scm.com/docs/git-status#_porcelain_format_version_1.
type FileStatus struct {
	Staged   byte
	Worktree byte
}

// Untracked reports whether the path is not tracked by Git at all.
func (s FileStatus) Untracked() bool {
	return s.Staged == '?' || s.Worktree == '?'
}

// Ignored reports whether the path is ignored.
func (s FileStatus) Ignored() bool {
	return s.Staged == '!' || s.Worktree == '!'
}

// Status returns every path with a pending change in the repository's
// working tree or index, keyed by path relative to the worktree root.
// Renames are disabled so each record names exactly one path.
func (r *Repository) Status() (map[string]FileStatus, error) {
	worktree, err := r.GetWorktreePath()
	if err != nil {
		return nil, err
	}

	output, err := r.git(
		"-C", worktree,
		"status", "--porcelain=1", "-z", "--no-renames",
		"--untracked-files=all", "--ignored",
	).runBytes()
	if err != nil {
		return nil, fmt.Errorf("unable to check status of repository: %w", err)
	}

	statuses := map[string]FileStatus{}

	// Each NUL-terminated record is `XY <path>`: two status letters, a
	// space, then the path verbatim.
	for _, record := range strings.Split(string(output), "\x00") {
		if len(record) < 4 {
			continue
		}

		statuses[record[3:]] = FileStatus{Staged: record[0], Worktree: record[1]}
	}

	return statuses, nil
}
