// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package provenance_test

import (
	"testing"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/provenance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitTree writes a single-file root tree containing path -> blobID and
// commits it onto ref, building a linear chain one commit at a time.
func commitTree(t *testing.T, repo *gitinterface.Repository, ref, path string, blobID gitinterface.Hash, message string) gitinterface.Hash {
	t.Helper()

	treeID, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		path: {ID: blobID},
	})
	require.NoError(t, err)

	commitID, err := repo.Commit(treeID, ref, message)
	require.NoError(t, err)

	return commitID
}

func TestFindFirstCommitWithBlob(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)

	firstBlob, err := repo.WriteBlob([]byte("v1"))
	require.NoError(t, err)
	firstCommit := commitTree(t, repo, "refs/heads/main", "a.txt", firstBlob, "add a.txt")

	// Two further commits that add unrelated files while a.txt keeps the same
	// blob throughout the chain.
	secondBlob, err := repo.WriteBlob([]byte("v2"))
	require.NoError(t, err)
	secondTree, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"a.txt": {ID: firstBlob},
		"b.txt": {ID: secondBlob},
	})
	require.NoError(t, err)
	_, err = repo.Commit(secondTree, "refs/heads/main", "add b.txt")
	require.NoError(t, err)

	thirdBlob, err := repo.WriteBlob([]byte("v3"))
	require.NoError(t, err)
	thirdTree, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"a.txt": {ID: firstBlob},
		"b.txt": {ID: secondBlob},
		"c.txt": {ID: thirdBlob},
	})
	require.NoError(t, err)
	thirdCommit, err := repo.Commit(thirdTree, "refs/heads/main", "add c.txt")
	require.NoError(t, err)

	// a.txt's content was introduced at firstCommit; walking back from
	// thirdCommit must land there.
	found, err := provenance.FindFirstCommitWithBlob(repo, firstBlob, thirdCommit)
	require.NoError(t, err)
	assert.Equal(t, firstCommit, found)
}

func TestFindFirstCommitWithBlobNotFound(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)

	blobID, err := repo.WriteBlob([]byte("v1"))
	require.NoError(t, err)
	commitID := commitTree(t, repo, "refs/heads/main", "a.txt", blobID, "add a.txt")

	otherBlob, err := repo.WriteBlob([]byte("never added"))
	require.NoError(t, err)

	_, err = provenance.FindFirstCommitWithBlob(repo, otherBlob, commitID)
	require.ErrorIs(t, err, provenance.ErrNotFound)
}

func TestFindFirstCommitWithTree(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)

	innerBlob, err := repo.WriteBlob([]byte("hello"))
	require.NoError(t, err)
	innerTree, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"file.txt": {ID: innerBlob},
	})
	require.NoError(t, err)
	rootTree, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"docs": {ID: innerTree, IsTree: true},
	})
	require.NoError(t, err)
	firstCommit, err := repo.Commit(rootTree, "refs/heads/main", "add docs/")
	require.NoError(t, err)

	// A second commit that adds a file inside docs/, so docs/ names a
	// different tree object at the same path. Provenance is path-based, so
	// the walk must still go back to the first commit.
	otherBlob, err := repo.WriteBlob([]byte("unrelated"))
	require.NoError(t, err)
	innerTree2, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"file.txt":  {ID: innerBlob},
		"extra.txt": {ID: otherBlob},
	})
	require.NoError(t, err)
	rootTree2, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"docs": {ID: innerTree2, IsTree: true},
	})
	require.NoError(t, err)
	secondCommit, err := repo.Commit(rootTree2, "refs/heads/main", "add extra")
	require.NoError(t, err)

	found, err := provenance.FindFirstCommitWithTree(repo, "docs", secondCommit)
	require.NoError(t, err)
	assert.Equal(t, firstCommit, found)
}

func TestFindFirstCommitWithObjectRejectsMerges(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)

	blobID, err := repo.WriteBlob([]byte("v1"))
	require.NoError(t, err)
	baseTree, err := repo.WriteTree(map[string]gitinterface.TreeItem{"a.txt": {ID: blobID}})
	require.NoError(t, err)
	base, err := repo.Commit(baseTree, "refs/heads/main", "base")
	require.NoError(t, err)

	// git commit-tree drops a repeated parent, so the merge needs a second,
	// distinct parent.
	side := commitTree(t, repo, "refs/heads/side", "a.txt", blobID, "side")

	otherBlob, err := repo.WriteBlob([]byte("v2"))
	require.NoError(t, err)
	mergeTree, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"a.txt": {ID: blobID},
		"b.txt": {ID: otherBlob},
	})
	require.NoError(t, err)

	merge := repo.CommitWithParentsForTest(t, mergeTree, []gitinterface.Hash{base, side}, "merge")

	_, err = provenance.FindFirstCommitWithObject(repo, merge, "b.txt")
	require.Error(t, err)
}
