// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package metapath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		expr       string
		opts       []Option
		wantRev    string
		wantStream string
		wantMode   SearchMode
		wantErr    bool
	}{
		"search backward, three fields": {
			expr:       "s+:D2:docs/a.txt:meta",
			wantRev:    "D2",
			wantStream: "meta",
			wantMode:   SearchBackward,
		},
		"revision only, three fields": {
			expr:       "s-:D1:docs/a.txt:meta",
			wantRev:    "D1",
			wantStream: "meta",
			wantMode:   RevisionOnly,
		},
		"revision only, no colon after sign": {
			expr:       "s-D1:docs/a.txt:meta",
			wantRev:    "D1",
			wantStream: "meta",
			wantMode:   RevisionOnly,
		},
		"default stream": {
			expr:       "s-:D1:docs/a.txt",
			wantRev:    "D1",
			wantStream: DefaultStream,
			wantMode:   RevisionOnly,
		},
		"missing search prefix is an error when required": {
			expr:    "D1:docs/a.txt:meta",
			wantErr: true,
		},
		"search prefix not required": {
			expr:       "D1:docs/a.txt:meta",
			opts:       []Option{RequireSearch(false)},
			wantRev:    "D1",
			wantStream: "meta",
			wantMode:   NoSearch,
		},
		"semicolon rejected": {
			expr:    "s-:D1:docs/a.txt;rm -rf /:meta",
			wantErr: true,
		},
		"stream with separator rejected": {
			expr:    "s-:D1:docs/a.txt:a/b",
			wantErr: true,
		},
		"too many colons": {
			expr:    "s-:D1:docs/a.txt:meta:extra",
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(test.expr, test.opts...)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantRev, got.DataRev)
			assert.Equal(t, test.wantStream, got.Stream)
			assert.Equal(t, test.wantMode, got.SearchMode)
		})
	}
}

func TestParseColonlessShorthand(t *testing.T) {
	got, err := Parse("s+docs/a.txt", RequireSearch(true))
	require.NoError(t, err)
	assert.Equal(t, "", got.DataRev)
	assert.Equal(t, DefaultStream, got.Stream)
	assert.Equal(t, SearchBackward, got.SearchMode)
	assert.Contains(t, got.Logical, "docs/a.txt")
}

type fakeRepo struct {
	workdir string
}

func (f *fakeRepo) GetWorktreePath() (string, error) {
	return f.workdir, nil
}

func TestParseRelativeToRepository(t *testing.T) {
	repo := &fakeRepo{workdir: "/repo"}

	got, err := Parse("s-:D1:docs/a.txt:meta", BaseDir("/repo/sub"), WithRepository(repo))
	require.NoError(t, err)
	assert.Equal(t, "sub/docs/a.txt", got.Logical)
}

func TestParseOutsideRepositoryIsError(t *testing.T) {
	repo := &fakeRepo{workdir: "/repo"}

	_, err := Parse("s-:D1:/elsewhere/a.txt:meta", WithRepository(repo))
	require.Error(t, err)
}
