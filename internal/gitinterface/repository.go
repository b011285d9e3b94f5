// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/jonboulle/clockwork"
)

const (
	gitBinary        = "git"
	committerTimeKey = "GIT_COMMITTER_DATE"
	authorTimeKey    = "GIT_AUTHOR_DATE"
)

// Repository is a lightweight wrapper around a Git repository. It stores the
// location of the repository's GIT_DIR and the clock used to stamp the
// commits it creates.
type Repository struct {
	gitDirPath string
	clock      clockwork.Clock
}

// LoadRepository returns a Repository instance for the repository containing
// repositoryPath. It also inspects the PATH to ensure Git is installed.
func LoadRepository(repositoryPath string) (*Repository, error) {
	if repositoryPath == "" {
		return nil, errors.New("repository path not specified")
	}

	if _, err := exec.LookPath(gitBinary); err != nil {
		return nil, fmt.Errorf("unable to find Git binary, is Git installed?")
	}

	repo := &Repository{clock: clockwork.NewRealClock()}

	// --absolute-git-dir already resolves the local path rev-parse would
	// otherwise hand back, symlinks included. gitDirPath is still unset
	// here, so no --git-dir flag is added.
	gitDir, err := repo.git("-C", repositoryPath, "rev-parse", "--absolute-git-dir").run()
	if err != nil {
		return nil, fmt.Errorf("unable to identify Git directory for '%s': %w", repositoryPath, err)
	}

	slog.Debug("Loaded repository", "gitdir", gitDir)
	repo.gitDirPath = gitDir

	return repo, nil
}

// GetGitDir returns the GIT_DIR path for the repository.
func (r *Repository) GetGitDir() string {
	return r.gitDirPath
}

// IsBare returns true if the repository is a bare repository.
func (r *Repository) IsBare() bool {
	// TODO: this may not work when the repo is cloned with GIT_DIR set
	// elsewhere. We don't support this at the moment, so it's probably okay?
	return !strings.HasSuffix(r.gitDirPath, ".git")
}

// GetWorktreePath returns the repository's working directory. Bare
// repositories have no working directory to resolve relative paths against;
// callers check IsBare before calling this.
func (r *Repository) GetWorktreePath() (string, error) {
	if r.IsBare() {
		return "", fmt.Errorf("repository at '%s' is bare", r.gitDirPath)
	}

	return strings.TrimSuffix(r.gitDirPath, ".git"), nil
}

// GetGoGitRepository returns the go-git representation of the repository,
// used where an in-process revision walk beats shelling out per commit.
func (r *Repository) GetGoGitRepository() (*git.Repository, error) {
	return git.PlainOpenWithOptions(r.gitDirPath, &git.PlainOpenOptions{DetectDotGit: false})
}

// gitCommand accumulates a single invocation of the Git binary against the
// repository. Build it with Repository.git, tweak it with the chainable
// setters, then execute it with run or runBytes.
type gitCommand struct {
	repo     *Repository
	args     []string
	extraEnv []string
	input    []byte
}

// git initializes a gitCommand with the arguments to the `git` binary; the
// binary itself must not be specified.
func (r *Repository) git(args ...string) *gitCommand {
	return &gitCommand{repo: r, args: args}
}

// env adds environment variables, each in `key=value` form, on top of the
// inherited environment.
func (c *gitCommand) env(pairs ...string) *gitCommand {
	c.extraEnv = append(c.extraEnv, pairs...)
	return c
}

// stdin supplies the command's standard input.
func (c *gitCommand) stdin(contents []byte) *gitCommand {
	c.input = contents
	return c
}

// runBytes executes the command and returns its raw standard output. A
// failure carries the command line and the trimmed stderr contents.
func (c *gitCommand) runBytes() ([]byte, error) {
	args := c.args
	if c.repo.gitDirPath != "" {
		args = append([]string{"--git-dir", c.repo.gitDirPath}, args...)
	}

	cmd := exec.Command(gitBinary, args...) //nolint:gosec
	cmd.Env = append(os.Environ(), "LC_ALL=C") // force git to the C (and thus english) locale
	cmd.Env = append(cmd.Env, c.extraEnv...)

	if c.input != nil {
		cmd.Stdin = bytes.NewReader(c.input)
	}

	var stdOut, stdErr bytes.Buffer
	cmd.Stdout = &stdOut
	cmd.Stderr = &stdErr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w when executing `git %s`: %s", err, strings.Join(c.args, " "), strings.TrimSpace(stdErr.String()))
	}

	return stdOut.Bytes(), nil
}

// run executes the command and returns its standard output with surrounding
// whitespace removed. Use runBytes when the output must not be touched,
// e.g. when reading blob contents.
func (c *gitCommand) run() (string, error) {
	stdOut, err := c.runBytes()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(stdOut)), nil
}
