// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit creates a new commit in the repo and sets targetRef to the commit.
// This function is meant only for metadata references, and therefore it does
// not mutate repository worktrees.
func (r *Repository) Commit(treeID Hash, targetRef, message string) (Hash, error) {
	currentGitID, err := r.GetReference(targetRef)
	if err != nil {
		if !errors.Is(err, ErrReferenceNotFound) {
			return ZeroHash, err
		}
	}

	args := []string{"commit-tree", "-m", message}

	if !currentGitID.IsZero() {
		args = append(args, "-p", currentGitID.String())
	}

	args = append(args, treeID.String())

	name, email, err := r.GetIdentity()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to determine committer identity: %w", err)
	}

	now := r.clock.Now().Format(time.RFC3339)
	env := []string{
		fmt.Sprintf("GIT_AUTHOR_NAME=%s", name),
		fmt.Sprintf("GIT_AUTHOR_EMAIL=%s", email),
		fmt.Sprintf("GIT_COMMITTER_NAME=%s", name),
		fmt.Sprintf("GIT_COMMITTER_EMAIL=%s", email),
		fmt.Sprintf("%s=%s", committerTimeKey, now),
		fmt.Sprintf("%s=%s", authorTimeKey, now),
	}

	stdOut, err := r.git(args...).env(env...).run()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to create commit: %w", err)
	}
	commitID, err := NewHash(stdOut)
	if err != nil {
		return ZeroHash, fmt.Errorf("received invalid commit ID: %w", err)
	}

	return commitID, r.CheckAndSetReference(targetRef, commitID, currentGitID)
}

// CommitWithParentsForTest creates a new commit in the repo but does not
// update any references. It is only meant to be used for tests, and
// therefore accepts specific parent commit IDs directly -- this is how
// merge commits are constructed in the provenance walker's tests. `git
// commit-tree` drops a repeated parent ID, so a merge needs distinct parents.
func (r *Repository) CommitWithParentsForTest(t *testing.T, treeID Hash, parentIDs []Hash, message string) Hash {
	args := []string{"commit-tree", "-m", message}

	for _, commitID := range parentIDs {
		args = append(args, "-p", commitID.String())
	}

	args = append(args, treeID.String())

	now := r.clock.Now().Format(time.RFC3339)
	env := []string{fmt.Sprintf("%s=%s", committerTimeKey, now), fmt.Sprintf("%s=%s", authorTimeKey, now)}

	stdOut, err := r.git(args...).env(env...).run()
	if err != nil {
		t.Fatal(fmt.Errorf("unable to create commit: %w", err))
	}
	commitID, err := NewHash(stdOut)
	if err != nil {
		t.Fatal(fmt.Errorf("received invalid commit ID: %w", err))
	}

	return commitID
}

// GetCommitMessage returns the commit's message.
func (r *Repository) GetCommitMessage(commitID Hash) (string, error) {
	if err := r.ensureIsCommit(commitID); err != nil {
		return "", err
	}

	commitMessage, err := r.git("show", "-s", "--format=%B", commitID.String()).run()
	if err != nil {
		return "", fmt.Errorf("unable to identify message for commit '%s': %w", commitID.String(), err)
	}

	return commitMessage, nil
}

// GetCommitTreeID returns the commit's Git tree ID.
func (r *Repository) GetCommitTreeID(commitID Hash) (Hash, error) {
	if err := r.ensureIsCommit(commitID); err != nil {
		return ZeroHash, err
	}

	stdOut, err := r.git("rev-parse", fmt.Sprintf("%s^{tree}", commitID.String())).run()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to identify tree for commit '%s': %w", commitID.String(), err)
	}

	hash, err := NewHash(stdOut)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid tree for commit ID '%s': %w", commitID, err)
	}
	return hash, nil
}

// GetCommitParentIDs returns the commit's parent commit IDs.
func (r *Repository) GetCommitParentIDs(commitID Hash) ([]Hash, error) {
	if err := r.ensureIsCommit(commitID); err != nil {
		return nil, err
	}

	stdOut, err := r.git("rev-parse", fmt.Sprintf("%s^@", commitID.String())).run()
	if err != nil {
		return nil, fmt.Errorf("unable to identify parents for commit '%s': %w", commitID.String(), err)
	}

	commitIDSplit := strings.Split(stdOut, "\n")
	if len(commitIDSplit) == 0 {
		return nil, nil
	}

	commitIDs := []Hash{}
	for _, commitID := range commitIDSplit {
		if commitID == "" {
			continue
		}

		hash, err := NewHash(commitID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent commit ID '%s': %w", commitID, err)
		}

		commitIDs = append(commitIDs, hash)
	}

	if len(commitIDs) == 0 {
		return nil, nil
	}

	return commitIDs, nil
}

// KnowsCommit returns true if the `testCommit` is a descendent of the
// `ancestorCommit`. That is, the testCommit _knows_ the ancestorCommit as it
// has a path in the commit graph to the ancestorCommit.
func (r *Repository) KnowsCommit(testCommitID, ancestorCommitID Hash) (bool, error) {
	if err := r.ensureIsCommit(testCommitID); err != nil {
		return false, err
	}
	if err := r.ensureIsCommit(ancestorCommitID); err != nil {
		return false, err
	}

	_, err := r.git("merge-base", "--is-ancestor", ancestorCommitID.String(), testCommitID.String()).run()
	return err == nil, nil
}

// ensureIsCommit is a helper to check that the ID represents a Git commit
// object.
func (r *Repository) ensureIsCommit(commitID Hash) error {
	objType, err := r.git("cat-file", "-t", commitID.String()).run()
	if err != nil {
		return fmt.Errorf("unable to inspect if object is commit: %w", err)
	} else if objType != "commit" {
		return fmt.Errorf("requested Git ID '%s' is not a commit object", commitID.String())
	}

	return nil
}

// GetCommitTime returns the commit's committer timestamp.
func (r *Repository) GetCommitTime(commitID Hash) (time.Time, error) {
	if err := r.ensureIsCommit(commitID); err != nil {
		return time.Time{}, err
	}

	stdOut, err := r.git("show", "-s", "--format=%cI", commitID.String()).run()
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to identify commit time for '%s': %w", commitID.String(), err)
	}

	committed, err := time.Parse(time.RFC3339, stdOut)
	if err != nil {
		return time.Time{}, fmt.Errorf("received invalid commit time for '%s': %w", commitID.String(), err)
	}

	return committed, nil
}

// GetCommitsInTimeOrder returns startCommit and its ancestors, ordered
// newest-first by committer time. This is the order the log operation
// walks in.
func (r *Repository) GetCommitsInTimeOrder(startCommit Hash) ([]Hash, error) {
	if err := r.ensureIsCommit(startCommit); err != nil {
		return nil, err
	}

	gitRepo, err := r.GetGoGitRepository()
	if err != nil {
		return nil, err
	}

	iter, err := gitRepo.Log(&git.LogOptions{
		From:  plumbing.NewHash(startCommit.String()),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to walk ancestors of '%s': %w", startCommit.String(), err)
	}
	defer iter.Close()

	var commits []Hash
	if err := iter.ForEach(func(c *object.Commit) error {
		hash, err := NewHash(c.Hash.String())
		if err != nil {
			return fmt.Errorf("invalid commit ID '%s' in ancestor walk: %w", c.Hash.String(), err)
		}
		commits = append(commits, hash)
		return nil
	}); err != nil {
		return nil, err
	}

	return commits, nil
}
