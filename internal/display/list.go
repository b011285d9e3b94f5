// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"fmt"
	"io"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metadata"
)

const listRowFormat = "%-40s %-40s %-15s %-11s %-19s\n"

// List implements the display function for `metagit list`. It renders the
// two-table classification the Metadata Engine's List operation produces:
// data commits whose object at the requested path matches the requested
// data revision, followed by every other version of metadata found for the
// same path.
func List(repo *gitinterface.Repository, result *metadata.ListResult, logicalPath string, writer io.WriteCloser) error {
	defer writer.Close() //nolint:errcheck

	rule := fmt.Sprintf(listRowFormat, dashes(40, '='), dashes(40, '='), dashes(15, '='), dashes(11, '='), dashes(19, '='))
	header := fmt.Sprintf(listRowFormat, "Data commit ID", "Data in commit", "Data matches", "Inheritable", "Committed")
	divider := fmt.Sprintf(listRowFormat, dashes(40, '-'), dashes(40, '-'), dashes(15, '-'), dashes(11, '-'), dashes(19, '-'))

	if _, err := fmt.Fprintf(writer, "Listing metadata for %s\n\n", logicalPath); err != nil {
		return err
	}
	if err := writeAll(writer, rule, header, divider); err != nil {
		return err
	}

	if err := writeListRows(repo, writer, result.Matching, "Found the following matches:"); err != nil {
		return err
	}

	if _, err := fmt.Fprint(writer, divider); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(writer, "Other versions of metadata for the same path:"); err != nil {
		return err
	}
	if len(result.Other) == 0 {
		_, err := fmt.Fprintln(writer, "None found")
		if err != nil {
			return err
		}
	} else {
		for _, commitID := range result.Other {
			if _, err := fmt.Fprintf(writer, listRowFormat, commitID.String(), "-", "NO", "-", "-"); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprint(writer, rule)
	return err
}

func writeListRows(repo *gitinterface.Repository, writer io.Writer, entries []metadata.ListEntry, heading string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(writer, "None found")
		return err
	}

	if _, err := fmt.Fprintln(writer, heading); err != nil {
		return err
	}

	for _, entry := range entries {
		committed, err := repo.GetCommitTime(entry.DataCommitID)
		if err != nil {
			return err
		}

		dataInCommit := entry.ObjectID.String()
		if entry.ObjectKind == gitinterface.KindTree {
			dataInCommit = "(directory)"
		}

		inheritable := "NO"
		if entry.Inheritable {
			inheritable = "YES"
		}

		if _, err := fmt.Fprintf(writer, listRowFormat,
			entry.DataCommitID.String(),
			dataInCommit,
			"YES",
			inheritable,
			committed.Format("2006-01-02 15:04:05 -0700"),
		); err != nil {
			return err
		}
	}

	return nil
}

func writeAll(writer io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprint(writer, line); err != nil {
			return err
		}
	}
	return nil
}

func dashes(n int, c byte) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
