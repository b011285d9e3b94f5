// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferences(t *testing.T) {
	repo := CreateTestGitRepository(t, t.TempDir(), true)

	refName := "refs/heads/metadata"

	_, err := repo.GetReference(refName)
	assert.ErrorIs(t, err, ErrReferenceNotFound)

	treeID, err := repo.EmptyTree()
	require.NoError(t, err)
	commitID, err := repo.Commit(treeID, refName, "initial")
	require.NoError(t, err)

	tip, err := repo.GetReference(refName)
	require.NoError(t, err)
	assert.Equal(t, commitID, tip)

	otherRef := "refs/heads/other"
	require.NoError(t, repo.SetReference(otherRef, commitID))
	tip, err = repo.GetReference(otherRef)
	require.NoError(t, err)
	assert.Equal(t, commitID, tip)

	require.NoError(t, repo.DeleteReference(otherRef))
	_, err = repo.GetReference(otherRef)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestCheckAndSetReference(t *testing.T) {
	repo := CreateTestGitRepository(t, t.TempDir(), true)

	refName := "refs/heads/metadata"
	treeID, err := repo.EmptyTree()
	require.NoError(t, err)

	first, err := repo.Commit(treeID, refName, "first")
	require.NoError(t, err)
	second, err := repo.Commit(treeID, refName, "second")
	require.NoError(t, err)

	// The expected old value no longer matches, so the update must fail.
	err = repo.CheckAndSetReference(refName, first, first)
	assert.Error(t, err)

	tip, err := repo.GetReference(refName)
	require.NoError(t, err)
	assert.Equal(t, second, tip)
}

func TestBranchReferenceName(t *testing.T) {
	assert.Equal(t, "refs/heads/metadata", BranchReferenceName("metadata"))
	assert.Equal(t, "refs/heads/metadata", BranchReferenceName("refs/heads/metadata"))
}
