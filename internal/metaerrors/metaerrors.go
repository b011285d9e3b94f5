// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package metaerrors collects the sentinel errors surfaced by metagit's core
// components. Consumers compare against these with errors.Is rather than
// matching message text or maintaining bespoke exception subclasses per
// collaborator.
package metaerrors

import "errors"

var (
	// ErrRepositoryNotFound is returned when no host repository could be
	// located from the requested path upward.
	ErrRepositoryNotFound = errors.New("RepositoryNotFound: no Git repository found")

	// ErrRepositoryUnsupported is returned for bare repositories, which have
	// no working directory to resolve relative paths against.
	ErrRepositoryUnsupported = errors.New("RepositoryUnsupported: bare repositories are not supported")

	// ErrNoMetadataReference is returned in read-only contexts when the
	// metadata reference does not exist yet.
	ErrNoMetadataReference = errors.New("NoMetadataReference: metadata reference does not exist")

	// ErrMetadataBlobNotFound is returned when the requested blob is absent
	// at its canonical path.
	ErrMetadataBlobNotFound = errors.New("MetadataBlobNotFound: metadata blob not found")

	// ErrDataNotFound is returned when a referenced data revision, commit, or
	// object does not exist.
	ErrDataNotFound = errors.New("DataNotFound: data object not found")

	// ErrMetadataReadError is returned for a structural violation
	// encountered during a read, e.g. a merge commit in the provenance walk.
	ErrMetadataReadError = errors.New("MetadataReadError: metadata could not be read")

	// ErrMetadataWriteError is returned when an existing non-tree entry
	// blocks tree synthesis and force was not set.
	ErrMetadataWriteError = errors.New("MetadataWriteError: metadata could not be written")

	// ErrMetadataFormatError is returned when a consumer requested JSON
	// parsing of a blob that is not valid JSON.
	ErrMetadataFormatError = errors.New("MetadataFormatError: metadata blob is not valid JSON")

	// ErrParameterError is returned for malformed path expressions, missing
	// required arguments, or paths outside the repository.
	ErrParameterError = errors.New("ParameterError: invalid parameters")

	// ErrMetadataInvalid is returned when the working-tree copy of a file
	// differs from its committed version and no explicit data revision was
	// given.
	ErrMetadataInvalid = errors.New("MetadataInvalid: working tree does not match committed data")

	// ErrMergesNotSupported is the specific MetadataReadError cause raised
	// by the provenance walker when it encounters a merge commit.
	ErrMergesNotSupported = errors.New("merges not supported")
)

// Kind identifies which of the taxonomy's tagged error kinds wraps err, for
// callers (notably the CLI) that need to print `<ErrorKind>: <detail>`
// without re-deriving it from the message text.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrRepositoryNotFound):
		return "RepositoryNotFound"
	case errors.Is(err, ErrRepositoryUnsupported):
		return "RepositoryUnsupported"
	case errors.Is(err, ErrNoMetadataReference):
		return "NoMetadataReference"
	case errors.Is(err, ErrMetadataBlobNotFound):
		return "MetadataBlobNotFound"
	case errors.Is(err, ErrDataNotFound):
		return "DataNotFound"
	case errors.Is(err, ErrMetadataReadError):
		return "MetadataReadError"
	case errors.Is(err, ErrMetadataWriteError):
		return "MetadataWriteError"
	case errors.Is(err, ErrMetadataFormatError):
		return "MetadataFormatError"
	case errors.Is(err, ErrParameterError):
		return "ParameterError"
	case errors.Is(err, ErrMetadataInvalid):
		return "MetadataInvalid"
	default:
		return "Error"
	}
}
