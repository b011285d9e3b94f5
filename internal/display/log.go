// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"fmt"
	"io"

	"github.com/mscottuk/metagit/internal/gitinterface"
	"github.com/mscottuk/metagit/internal/metadata"
)

// Log implements the display function for `metagit log`. It renders the
// Metadata Engine's Log operation as a walk over the data revision's
// ancestors, newest first, marking each commit that carries metadata for
// the requested path with the streams found there.
func Log(repo *gitinterface.Repository, result *metadata.LogResult, writer io.WriteCloser) error {
	defer writer.Close() //nolint:errcheck

	found := false
	for _, entry := range result.Entries {
		committed, err := repo.GetCommitTime(entry.Commit)
		if err != nil {
			return err
		}

		info := fmt.Sprintf("%s, %s", entry.Commit.String(), committed.Format("2006-01-02 15:04:05 -0700"))

		if len(entry.Streams) == 0 {
			if _, err := fmt.Fprintf(writer, "  %s\n", info); err != nil {
				return err
			}
			continue
		}

		found = true
		if _, err := fmt.Fprintf(writer, "%s %s\n \\\n", colorize("M", green), info); err != nil {
			return err
		}
		for _, stream := range entry.Streams {
			if _, err := fmt.Fprintf(writer, "  * Stream: %s\n", stream); err != nil {
				return err
			}
		}
	}

	if !found {
		_, err := fmt.Fprintln(writer, "\nNo metadata was found")
		return err
	}

	return nil
}
