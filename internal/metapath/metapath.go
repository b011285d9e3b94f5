// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

// Package metapath parses the user-facing path expressions that identify a
// metadata request: `[s+|s-]<datarev>:<path>[:<stream>]`. It carries no
// dependency on the repository's object store beyond the working-directory
// rewrite.
package metapath

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mscottuk/metagit/internal/metaerrors"
)

// SearchMode controls whether a read or write is permitted to fall back to
// the Provenance Walker when a blob isn't found at the requested data
// revision directly.
type SearchMode int

const (
	// NoSearch is used by operations (list, log, ls) that never walk
	// provenance and so have no search policy to apply.
	NoSearch SearchMode = iota
	// SearchBackward ("s+") permits the Provenance Walker to look for the
	// first ancestor commit containing the object.
	SearchBackward
	// RevisionOnly ("s-") uses the data revision exactly as given, with no
	// fallback.
	RevisionOnly
)

func (m SearchMode) String() string {
	switch m {
	case SearchBackward:
		return "s+"
	case RevisionOnly:
		return "s-"
	default:
		return "no-search"
	}
}

// DefaultStream is the stream name used when none is given in the
// expression.
const DefaultStream = "metadata"

// Path is the structured result of parsing a path expression.
type Path struct {
	DataRev    string
	Logical    string
	Stream     string
	SearchMode SearchMode
}

// workdirResolver is implemented by *gitinterface.Repository. It is defined
// here, rather than imported, so metapath has no dependency on
// gitinterface.
type workdirResolver interface {
	GetWorktreePath() (string, error)
}

// Option configures a Parse call.
type Option func(*parseConfig)

type parseConfig struct {
	requireSearch bool
	baseDir       string
	repo          workdirResolver
}

// RequireSearch controls whether the `s+`/`s-` prefix must be present.
// list/log/ls pass RequireSearch(false); get/set/setvalue/getvalue/copy pass
// RequireSearch(true) (the default).
func RequireSearch(required bool) Option {
	return func(c *parseConfig) { c.requireSearch = required }
}

// BaseDir overrides the base directory a relative logical path is resolved
// against. Defaults to the current working directory.
func BaseDir(dir string) Option {
	return func(c *parseConfig) { c.baseDir = dir }
}

// WithRepository supplies a repository handle so the parsed logical path is
// rewritten relative to the repository's working directory instead of being
// left as an absolute path.
func WithRepository(repo workdirResolver) Option {
	return func(c *parseConfig) { c.repo = repo }
}

var (
	// reWithColons matches `[s+|s-]datarev:path[:stream]`. The search prefix
	// may be directly followed by the datarev (`s-D1:...`) or by a colon
	// before it (`s-:D1:...`); both are accepted.
	reWithColons = regexp.MustCompile(`^(?:s(?:earch)?([-+]):?)?([^:\r\n]*):([^:\r\n]*):?([^:\r\n]*)$`)
	// reColonless matches the shorthand `[s+|s-]path` with no colons at all.
	reColonless = regexp.MustCompile(`^(?:s(?:earch)?([-+]):?)?()([^:\r\n]*)()$`)
)

const pathSyntax = "[s+|s-]<datarev>:<path>[:<stream>]"

// Parse parses expr into a Path. Options tailor the parse to the calling
// command: whether a search prefix is required, the base directory for
// relative paths, and whether the logical path should be rewritten relative
// to a repository's root.
func Parse(expr string, opts ...Option) (*Path, error) {
	cfg := &parseConfig{requireSearch: true}
	for _, opt := range opts {
		opt(cfg)
	}

	if strings.ContainsAny(expr, ";") {
		return nil, fmt.Errorf("%w: path expression %q may not contain ';'", metaerrors.ErrParameterError, expr)
	}

	match := reWithColons.FindStringSubmatch(expr)
	if match == nil {
		match = reColonless.FindStringSubmatch(expr)
	}
	if match == nil {
		syntax := pathSyntax
		if !cfg.requireSearch {
			syntax = strings.TrimPrefix(syntax, "[s+|s-]")
		}
		return nil, fmt.Errorf("%w: could not parse %q, expected syntax %s", metaerrors.ErrParameterError, expr, syntax)
	}

	searchFlag := match[1]
	dataRev := match[2]
	logical := match[3]
	stream := match[4]

	if strings.ContainsAny(dataRev, ";") || strings.ContainsAny(logical, ";") || strings.ContainsAny(stream, ";") {
		return nil, fmt.Errorf("%w: path expression %q may not contain ';'", metaerrors.ErrParameterError, expr)
	}

	p := &Path{
		DataRev: dataRev,
		Logical: logical,
		Stream:  stream,
	}

	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if strings.ContainsAny(p.Stream, "/\\") {
		return nil, fmt.Errorf("%w: stream name %q may not contain a path separator", metaerrors.ErrParameterError, p.Stream)
	}

	if cfg.requireSearch {
		switch searchFlag {
		case "+":
			p.SearchMode = SearchBackward
		case "-":
			p.SearchMode = RevisionOnly
		default:
			return nil, fmt.Errorf("%w: please specify 's+' or 's-'", metaerrors.ErrParameterError)
		}
	} else {
		p.SearchMode = NoSearch
	}

	if p.Logical == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("unable to determine current directory: %w", err)
		}
		p.Logical = cwd
	}
	p.Logical = filepath.Clean(p.Logical)

	if cfg.baseDir != "" && !filepath.IsAbs(cfg.baseDir) {
		return nil, fmt.Errorf("%w: base path must be absolute", metaerrors.ErrParameterError)
	}

	if !filepath.IsAbs(p.Logical) {
		base := cfg.baseDir
		if base == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("unable to determine current directory: %w", err)
			}
			base = cwd
		}
		p.Logical = filepath.Clean(filepath.Join(base, p.Logical))
	}

	if cfg.repo != nil {
		workdir, err := cfg.repo.GetWorktreePath()
		if err != nil {
			return nil, err
		}
		workdir = filepath.Clean(workdir)

		rel, err := filepath.Rel(workdir, p.Logical)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("%w: path %q is not within the repository", metaerrors.ErrParameterError, p.Logical)
		}
		if rel == "." {
			rel = ""
		}
		p.Logical = filepath.ToSlash(rel)
	}

	return p, nil
}
