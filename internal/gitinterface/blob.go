// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"fmt"
)

// ReadBlob returns the contents of the blob referenced by blobID.
func (r *Repository) ReadBlob(blobID Hash) ([]byte, error) {
	objType, err := r.git("cat-file", "-t", blobID.String()).run()
	if err != nil {
		return nil, fmt.Errorf("unable to inspect if object is blob: %w", err)
	} else if objType != "blob" {
		return nil, fmt.Errorf("requested Git ID '%s' is not a blob object", blobID.String())
	}

	// runBytes keeps the payload byte-exact; run would trim it.
	contents, err := r.git("cat-file", "-p", blobID.String()).runBytes()
	if err != nil {
		return nil, fmt.Errorf("unable to read blob '%s': %w", blobID.String(), err)
	}

	return contents, nil
}

// WriteBlob creates a blob object with the specified contents and returns the
// ID of the resultant blob.
func (r *Repository) WriteBlob(contents []byte) (Hash, error) {
	objID, err := r.git("hash-object", "-t", "blob", "-w", "--stdin").stdin(contents).run()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to write blob: %w", err)
	}

	hash, err := NewHash(objID)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid Git ID for blob: %w", err)
	}

	return hash, nil
}

// HashFile hashes the file at the specified path into its candidate blob ID
// without writing the blob to the object store. The metadata engine uses
// this to compare a working-tree file against its committed version when no
// explicit data revision was given.
func (r *Repository) HashFile(filePath string) (Hash, error) {
	objID, err := r.git("hash-object", "-t", "blob", "--", filePath).run()
	if err != nil {
		return ZeroHash, fmt.Errorf("unable to hash '%s': %w", filePath, err)
	}

	hash, err := NewHash(objID)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid Git ID for '%s': %w", filePath, err)
	}

	return hash, nil
}
