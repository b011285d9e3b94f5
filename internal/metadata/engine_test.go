// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package metadata_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metadata"
	"github.com/mscottuk/metagit/internal/metaerrors"
	"github.com/mscottuk/metagit/internal/metapath"
	"github.com/mscottuk/metagit/internal/treesynth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadataRef = "refs/heads/metadata"

// commitFile writes path -> contents (creating any enclosing directories) on
// top of ref's current tree and commits it onto ref, building a linear data
// history one commit at a time. Files from earlier commits are kept.
func commitFile(t *testing.T, repo *gitinterface.Repository, ref, path, contents, message string) (gitinterface.Hash, gitinterface.Hash) {
	t.Helper()

	blobID, err := repo.WriteBlob([]byte(contents))
	require.NoError(t, err)

	baseTree := gitinterface.ZeroHash
	if tip, err := repo.GetReference(ref); err == nil {
		baseTree, err = repo.GetCommitTreeID(tip)
		require.NoError(t, err)
	}

	treeID, err := treesynth.WriteTreeHierarchy(repo, baseTree, path, blobID, false)
	require.NoError(t, err)

	commitID, err := repo.Commit(treeID, ref, message)
	require.NoError(t, err)

	return commitID, blobID
}

// worktree satisfies metapath's working-directory rewrite hook without a
// real checkout, so parsed logical paths stay repository-relative even when
// the test repository is bare.
type worktree string

func (w worktree) GetWorktreePath() (string, error) { return string(w), nil }

func pathFor(t *testing.T, expr string, opts ...metapath.Option) *metapath.Path {
	t.Helper()
	opts = append(opts, metapath.BaseDir("/data"), metapath.WithRepository(worktree("/data")))
	p, err := metapath.Parse(expr, opts...)
	require.NoError(t, err)
	return p
}

func TestReadWriteRoundTrip(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	engine := metadata.NewEngine(repo, metadataRef)

	req := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	payload := []byte(`{"author":"X"}`)

	require.NoError(t, engine.Write(req, payload, false))

	got, err := engine.Read(req)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestWriteIsIdempotent(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	engine := metadata.NewEngine(repo, metadataRef)
	req := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	payload := []byte(`{"author":"X"}`)

	require.NoError(t, engine.Write(req, payload, false))
	firstHead, err := repo.GetReference(metadataRef)
	require.NoError(t, err)
	firstTree, err := repo.GetCommitTreeID(firstHead)
	require.NoError(t, err)

	require.NoError(t, engine.Write(req, payload, false))
	secondHead, err := repo.GetReference(metadataRef)
	require.NoError(t, err)
	secondTree, err := repo.GetCommitTreeID(secondHead)
	require.NoError(t, err)

	assert.NotEqual(t, firstHead, secondHead, "two writes must produce two commits")
	assert.Equal(t, firstTree, secondTree, "identical payload must produce a byte-identical root tree")

	got, err := engine.Read(req)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestWriteSiblingStreamsPreserved(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	engine := metadata.NewEngine(repo, metadataRef)

	req1 := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(req1, []byte(`{"owner":"alice"}`), false))

	req2 := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta2")
	require.NoError(t, engine.Write(req2, []byte(`{"owner":"bob"}`), false))

	got1, err := engine.Read(req1)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"owner":"alice"}`), got1)

	got2, err := engine.Read(req2)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"owner":"bob"}`), got2)
}

func TestSearchBackwardProvenance(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "X", "add a.txt")
	d2, _ := commitFile(t, repo, "refs/heads/main", "unrelated.txt", "Y", "unrelated change")

	engine := metadata.NewEngine(repo, metadataRef)

	writeReq := pathFor(t, "s+:"+d2.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(writeReq, []byte(`{"k":"v"}`), false))

	// The blob must have been keyed by d1, not d2.
	directReq := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	got, err := engine.Read(directReq)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"k":"v"}`), got)

	readReq := pathFor(t, "s+:"+d2.String()+":docs/a.txt:meta")
	got, err = engine.Read(readReq)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"k":"v"}`), got)
}

func TestMergeCommitRejected(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)

	// Two independent root commits each introduce docs/a.txt; git
	// commit-tree drops a repeated parent, so the merge needs both.
	base, blobA := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "a", "base")
	side, _ := commitFile(t, repo, "refs/heads/side", "docs/a.txt", "a", "side")

	blobB, err := repo.WriteBlob([]byte("b"))
	require.NoError(t, err)
	docsTree, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"a.txt": {ID: blobA},
		"b.txt": {ID: blobB},
	})
	require.NoError(t, err)
	mergeTree, err := repo.WriteTree(map[string]gitinterface.TreeItem{
		"docs": {ID: docsTree, IsTree: true},
	})
	require.NoError(t, err)
	merge := repo.CommitWithParentsForTest(t, mergeTree, []gitinterface.Hash{base, side}, "merge")
	require.NoError(t, repo.SetReference("refs/heads/merged", merge))

	engine := metadata.NewEngine(repo, metadataRef)
	seed := pathFor(t, "s-:"+base.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(seed, []byte(`{}`), false))

	req := pathFor(t, "s+:refs/heads/merged:docs/b.txt:meta")
	_, err = engine.Read(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, metaerrors.ErrMetadataReadError)
}

func TestReferenceInitializedOnFirstWrite(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	_, err := repo.GetReference(metadataRef)
	require.ErrorIs(t, err, gitinterface.ErrReferenceNotFound)

	engine := metadata.NewEngine(repo, metadataRef)
	req := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(req, []byte(`{}`), false))

	head, err := repo.GetReference(metadataRef)
	require.NoError(t, err)

	parents, err := repo.GetCommitParentIDs(head)
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestWriteCommitMessageNamesLogicalPath(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	engine := metadata.NewEngine(repo, metadataRef)
	req := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(req, []byte(`{}`), false))

	head, err := repo.GetReference(metadataRef)
	require.NoError(t, err)

	message, err := repo.GetCommitMessage(head)
	require.NoError(t, err)
	assert.Equal(t, "Update metadata for docs/a.txt (stream meta)", message)
}

func TestReadAfterReferenceDeleted(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	engine := metadata.NewEngine(repo, metadataRef)
	req := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(req, []byte(`{}`), false))

	require.NoError(t, repo.DeleteReference(metadataRef))

	_, err := engine.Read(req)
	assert.ErrorIs(t, err, metaerrors.ErrNoMetadataReference)
}

func TestCopy(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	engine := metadata.NewEngine(repo, metadataRef)
	src := pathFor(t, "s-:"+d1.String()+":docs/a.txt:streamA")
	require.NoError(t, engine.Write(src, []byte(`{"v":1}`), false))

	dst := pathFor(t, "s-:"+d1.String()+":docs/b.txt:streamB")
	require.NoError(t, engine.Copy(src, dst, false))

	got, err := engine.Read(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), got)
}

func TestCopyRequiresExplicitDataRevisionOnBothSides(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	engine := metadata.NewEngine(repo, metadataRef)
	src := pathFor(t, "s-:"+d1.String()+":docs/a.txt:streamA")
	require.NoError(t, engine.Write(src, []byte(`{"v":1}`), false))

	dst, err := metapath.Parse("s-::docs/b.txt:streamB")
	require.NoError(t, err)

	err = engine.Copy(src, dst, false)
	require.Error(t, err)
}

func TestReadMissingBlobRevisionOnly(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "hello", "add a.txt")

	engine := metadata.NewEngine(repo, metadataRef)

	// Another stream is written so the metadata reference exists and only
	// the requested blob is missing.
	other := pathFor(t, "s-:"+d1.String()+":docs/a.txt:other")
	require.NoError(t, engine.Write(other, []byte(`{}`), false))

	req := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	_, err := engine.Read(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, metaerrors.ErrMetadataBlobNotFound)
}

func TestWriteDirtyWorkingTreeIsRejected(t *testing.T) {
	tmpDir := t.TempDir()
	repo := gitinterface.CreateTestGitRepository(t, tmpDir, false)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(cwd) //nolint:errcheck

	filePath := filepath.Join(tmpDir, "a.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("v1"), 0o644))
	require.NoError(t, exec.Command("git", "add", "a.txt").Run())
	require.NoError(t, exec.Command("git", "commit", "-m", "add a.txt").Run())

	require.NoError(t, os.WriteFile(filePath, []byte("v2 uncommitted"), 0o644))

	engine := metadata.NewEngine(repo, metadataRef)
	req, err := metapath.Parse("s-::a.txt:meta", metapath.WithRepository(repo))
	require.NoError(t, err)
	err = engine.Write(req, []byte(`{}`), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, metaerrors.ErrMetadataInvalid)
}

func TestListClassifiesMatchingAndOtherVersions(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "v1", "first version")
	d2, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "v2", "second version")

	engine := metadata.NewEngine(repo, metadataRef)

	req1 := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(req1, []byte(`{"n":1}`), false))
	req2 := pathFor(t, "s-:"+d2.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(req2, []byte(`{"n":2}`), false))

	listReq := pathFor(t, ":docs/a.txt:meta", metapath.RequireSearch(false))
	result, err := engine.List(listReq)
	require.NoError(t, err)

	require.Len(t, result.Matching, 1)
	assert.Equal(t, d2, result.Matching[0].DataCommitID)
	assert.True(t, result.Matching[0].Inheritable)

	require.Len(t, result.Other, 1)
	assert.Equal(t, d1, result.Other[0])
}

func TestLogReportsStreamsPerCommit(t *testing.T) {
	repo := gitinterface.CreateTestGitRepository(t, t.TempDir(), true)
	d1, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "v1", "first version")
	d2, _ := commitFile(t, repo, "refs/heads/main", "docs/a.txt", "v2", "second version")

	engine := metadata.NewEngine(repo, metadataRef)
	req1 := pathFor(t, "s-:"+d1.String()+":docs/a.txt:meta")
	require.NoError(t, engine.Write(req1, []byte(`{"n":1}`), false))

	logReq := pathFor(t, ":docs/a.txt:meta", metapath.RequireSearch(false))
	result, err := engine.Log(logReq)
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, d2, result.Entries[0].Commit)
	assert.Empty(t, result.Entries[0].Streams)
	assert.Equal(t, d1, result.Entries[1].Commit)
	assert.Equal(t, []string{"meta"}, result.Entries[1].Streams)
}
