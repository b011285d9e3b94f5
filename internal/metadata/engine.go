// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package metadata implements the metadata engine: the orchestrator that
// combines the path parser, object resolver, provenance walker and tree
// synthesizer to serve read, write, copy, list, and log requests against
// the metadata reference.
package metadata

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metaerrors"
	"github.com/mscottuk/metagit/internal/metapath"
	"github.com/mscottuk/metagit/internal/provenance"
	"github.com/mscottuk/metagit/internal/treesynth"
)

// DefaultRef is the metadata reference name used when the caller does not
// override it with `-m/--metadataref`.
const DefaultRef = "refs/heads/metadata"

// NormalizeRef rewrites a bare reference name (no "refs/" prefix) to
// `refs/heads/<name>`. A fully qualified `refs/...` path is returned as-is.
func NormalizeRef(name string) string {
	if name == "" {
		return DefaultRef
	}
	if strings.HasPrefix(name, gitinterface.RefPrefix) {
		return name
	}
	return gitinterface.BranchReferenceName(name)
}

// Engine serves metadata operations for a single repository and a single
// metadata reference. It holds no other state; callers invoking it from
// concurrent contexts must serialize writes externally.
type Engine struct {
	repo        *gitinterface.Repository
	metadataRef string
}

// NewEngine constructs a Metadata Engine bound to repo and metadataRef.
// metadataRef should already be normalized (see NormalizeRef).
func NewEngine(repo *gitinterface.Repository, metadataRef string) *Engine {
	return &Engine{repo: repo, metadataRef: metadataRef}
}

// canonicalPath computes the canonical metadata blob path for
// (logicalPath, stream, dataCommitID):
// <logical_path>/<sentinel>/<stream>/<data_commit_id>.
func canonicalPath(logicalPath, stream, dataCommitID string) string {
	return path.Join(logicalPath, Sentinel, stream, dataCommitID)
}

// streamTreePath computes the path of the metadata stream node for
// (logicalPath, stream): <logical_path>/<sentinel>/<stream>.
func streamTreePath(logicalPath, stream string) string {
	return path.Join(logicalPath, Sentinel, stream)
}

// resolveDataCommit resolves the data commit id named by p.DataRev. If
// DataRev is empty, it falls back to HEAD, but only if the logical path is
// clean in the working tree; a dirty working-tree copy makes the implicit
// HEAD default ambiguous and is rejected with ErrMetadataInvalid.
func (e *Engine) resolveDataCommit(p *metapath.Path) (gitinterface.Hash, error) {
	if p.DataRev != "" {
		commit, err := e.repo.ResolveCommit(p.DataRev)
		if err != nil {
			return gitinterface.ZeroHash, fmt.Errorf("%w: %s", metaerrors.ErrDataNotFound, p.DataRev)
		}
		return commit, nil
	}

	if !e.repo.IsBare() {
		if err := e.checkWorkingTreeClean(p.Logical); err != nil {
			return gitinterface.ZeroHash, err
		}
	}

	commit, err := e.repo.ResolveCommit("HEAD")
	if err != nil {
		return gitinterface.ZeroHash, fmt.Errorf("%w: HEAD", metaerrors.ErrDataNotFound)
	}
	return commit, nil
}

// checkWorkingTreeClean verifies that the working-tree copy of logicalPath
// still matches its committed version in HEAD. For a file, the working copy
// is hashed into its candidate blob ID and compared against the committed
// blob by object identity. For a directory, any pending change at or below
// the path makes the implicit HEAD default ambiguous.
func (e *Engine) checkWorkingTreeClean(logicalPath string) error {
	resolved, err := e.repo.ResolveRevisionPath("HEAD:" + logicalPath)
	if err != nil {
		if errors.Is(err, gitinterface.ErrObjectNotFound) {
			return fmt.Errorf("%w: %s does not exist in HEAD", metaerrors.ErrDataNotFound, logicalPath)
		}
		return err
	}

	if resolved.Kind == gitinterface.KindBlob {
		workdir, err := e.repo.GetWorktreePath()
		if err != nil {
			return err
		}

		workingID, err := e.repo.HashFile(filepath.Join(workdir, filepath.FromSlash(logicalPath)))
		if err != nil || workingID != resolved.ID {
			return fmt.Errorf("%w: %s has uncommitted changes, specify a data revision explicitly", metaerrors.ErrMetadataInvalid, logicalPath)
		}
		return nil
	}

	statuses, err := e.repo.Status()
	if err != nil {
		return err
	}

	prefix := logicalPath + "/"
	for statusPath, status := range statuses {
		if status.Untracked() || status.Ignored() {
			continue
		}
		if logicalPath == "" || statusPath == logicalPath || strings.HasPrefix(statusPath, prefix) {
			return fmt.Errorf("%w: %s has uncommitted changes, specify a data revision explicitly", metaerrors.ErrMetadataInvalid, statusPath)
		}
	}

	return nil
}

// resolveWriteTarget resolves the data commit id that a write should be
// keyed to: for SearchBackward, the earliest ancestor commit at which the
// object at p.Logical first appeared; for RevisionOnly, the commit named by
// p.DataRev (or HEAD) directly.
func (e *Engine) resolveWriteTarget(p *metapath.Path) (gitinterface.Hash, error) {
	base, err := e.resolveDataCommit(p)
	if err != nil {
		return gitinterface.ZeroHash, err
	}

	if p.SearchMode != metapath.SearchBackward {
		return base, nil
	}

	return provenance.FindFirstCommitWithObject(e.repo, base, p.Logical)
}

// metadataHeadTree returns the Git tree ID at the tip of the metadata
// reference, and whether the reference currently exists. A missing
// reference is not itself an error here: callers decide whether that's
// ErrNoMetadataReference (reads) or "create it" (writes).
func (e *Engine) metadataHeadTree() (gitinterface.Hash, bool, error) {
	head, err := e.repo.GetReference(e.metadataRef)
	if err != nil {
		if errors.Is(err, gitinterface.ErrReferenceNotFound) {
			return gitinterface.ZeroHash, false, nil
		}
		return gitinterface.ZeroHash, false, err
	}

	treeID, err := e.repo.GetCommitTreeID(head)
	if err != nil {
		return gitinterface.ZeroHash, false, err
	}
	return treeID, true, nil
}

// readBlobAt reads the metadata blob at canonicalPath inside treeID, mapping
// a missing path to ErrMetadataBlobNotFound rather than the lower-level
// ErrObjectNotFound.
func (e *Engine) readBlobAt(treeID gitinterface.Hash, canonicalPath string) ([]byte, error) {
	resolved, err := e.repo.ResolveRevisionPath(treeID.String() + ":" + canonicalPath)
	if err != nil {
		if errors.Is(err, gitinterface.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", metaerrors.ErrMetadataBlobNotFound, canonicalPath)
		}
		return nil, err
	}
	if resolved.Kind != gitinterface.KindBlob {
		return nil, fmt.Errorf("%w: %s is not a blob", metaerrors.ErrMetadataReadError, canonicalPath)
	}

	return e.repo.ReadBlob(resolved.ID)
}

// Read returns the metadata blob for p. For SearchBackward requests, it
// first attempts a direct lookup at (data_rev, path), and only on "not
// found" walks the data commit's ancestry to find the first commit
// containing the object, then looks up at that commit instead. For
// RevisionOnly requests, a missing blob is surfaced directly with no
// fallback.
func (e *Engine) Read(p *metapath.Path) ([]byte, error) {
	requested, err := e.resolveDataCommit(p)
	if err != nil {
		return nil, err
	}

	treeID, exists, err := e.metadataHeadTree()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, metaerrors.ErrNoMetadataReference
	}

	blobPath := canonicalPath(p.Logical, p.Stream, requested.String())
	payload, err := e.readBlobAt(treeID, blobPath)
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, metaerrors.ErrMetadataBlobNotFound) || p.SearchMode != metapath.SearchBackward {
		return nil, err
	}

	slog.Debug("Metadata blob not found at requested revision, searching ancestry", "path", p.Logical, "revision", requested.String())

	found, walkErr := provenance.FindFirstCommitWithObject(e.repo, requested, p.Logical)
	if walkErr != nil {
		return nil, walkErr
	}

	fallbackPath := canonicalPath(p.Logical, p.Stream, found.String())
	return e.readBlobAt(treeID, fallbackPath)
}

// Write stores payload as the metadata blob for p, extending the metadata
// reference by one commit (and creating the reference on first write).
func (e *Engine) Write(p *metapath.Path, payload []byte, force bool) error {
	dataCommit, err := e.resolveWriteTarget(p)
	if err != nil {
		return err
	}

	blobID, err := e.repo.WriteBlob(payload)
	if err != nil {
		return err
	}

	baseTree, _, err := e.metadataHeadTree()
	if err != nil {
		return err
	}

	blobPath := canonicalPath(p.Logical, p.Stream, dataCommit.String())
	newTree, err := treesynth.WriteTreeHierarchy(e.repo, baseTree, blobPath, blobID, force)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Update metadata for %s (stream %s)", p.Logical, p.Stream)
	_, err = e.repo.Commit(newTree, e.metadataRef, message)
	return err
}

// Copy duplicates the metadata blob at src to dst. Both requests must
// carry an explicit data revision.
func (e *Engine) Copy(src, dst *metapath.Path, force bool) error {
	if src.DataRev == "" || dst.DataRev == "" {
		return fmt.Errorf("%w: copy requires an explicit data revision on both sides", metaerrors.ErrParameterError)
	}

	payload, err := e.Read(src)
	if err != nil {
		return err
	}

	return e.Write(dst, payload, force)
}
