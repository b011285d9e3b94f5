// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"errors"
	"fmt"
	"strings"
)

const (
	RefPrefix       = "refs/"
	BranchRefPrefix = "refs/heads/"
)

// ErrReferenceNotFound is returned when the requested Git reference does
// not exist in the repository.
var ErrReferenceNotFound = errors.New("requested Git reference not found")

// GetReference returns the object ID at the tip of refName, or
// ErrReferenceNotFound if no such reference exists.
func (r *Repository) GetReference(refName string) (Hash, error) {
	tip, err := r.git("rev-parse", "--verify", refName).run()
	if err != nil {
		// rev-parse --verify reports a missing ref one way, a plain
		// rev-parse the other; accept both so callers don't depend on
		// which form resolved the name.
		message := err.Error()
		if strings.Contains(message, "Needed a single revision") || strings.Contains(message, "unknown revision or path not in the working tree") {
			return ZeroHash, ErrReferenceNotFound
		}
		return ZeroHash, fmt.Errorf("unable to read reference '%s': %w", refName, err)
	}

	hash, err := NewHash(tip)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid Git ID for reference '%s': %w", refName, err)
	}

	return hash, nil
}

// SetReference points refName at gitID, creating the reference if it does
// not exist yet.
func (r *Repository) SetReference(refName string, gitID Hash) error {
	return r.updateRef(refName, refName, gitID.String())
}

// CheckAndSetReference points refName at newGitID only if the reference is
// still at oldGitID, so a concurrent update surfaces as an error instead of
// being overwritten.
func (r *Repository) CheckAndSetReference(refName string, newGitID, oldGitID Hash) error {
	return r.updateRef(refName, refName, newGitID.String(), oldGitID.String())
}

// DeleteReference removes refName.
func (r *Repository) DeleteReference(refName string) error {
	return r.updateRef(refName, "-d", refName)
}

func (r *Repository) updateRef(refName string, args ...string) error {
	fullArgs := append([]string{"update-ref", "--create-reflog"}, args...)
	if _, err := r.git(fullArgs...).run(); err != nil {
		return fmt.Errorf("unable to update reference '%s': %w", refName, err)
	}

	return nil
}

// BranchReferenceName qualifies a bare branch name as
// `refs/heads/<branchName>`; an already-qualified name passes through.
func BranchReferenceName(branchName string) string {
	if strings.HasPrefix(branchName, BranchRefPrefix) {
		return branchName
	}

	return BranchRefPrefix + branchName
}
