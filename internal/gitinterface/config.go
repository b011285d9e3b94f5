// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"fmt"
	"strings"
)

// GetGitConfig reads the applicable Git config for a repository and returns
// it. The "keys" for each config are normalized to lowercase.
func (r *Repository) GetGitConfig() (map[string]string, error) {
	stdOut, err := r.git("config", "--get-regexp", `.*`).run()
	if err != nil {
		return nil, fmt.Errorf("unable to read Git config: %w", err)
	}

	config := map[string]string{}

	lines := strings.Split(strings.TrimSpace(stdOut), "\n")
	for _, line := range lines {
		split := strings.SplitN(line, " ", 2)
		if len(split) == 2 {
			config[strings.ToLower(split[0])] = split[1]
		} else if len(split) == 1 && split[0] == "gpg.format" {
			config[strings.ToLower(split[0])] = ""
		}
	}

	return config, nil
}

// SetGitConfig sets the specified key to the value locally for a repository.
func (r *Repository) SetGitConfig(key, value string) error {
	if _, err := r.git("config", "--local", key, value).run(); err != nil {
		return fmt.Errorf("unable to set '%s' to '%s': %w", key, value, err)
	}

	return nil
}

// GetIdentity returns the committer/author name and email configured for
// the repository. Every commit created on the metadata reference uses
// this; identity is never hard-coded.
func (r *Repository) GetIdentity() (name, email string, err error) {
	config, err := r.GetGitConfig()
	if err != nil {
		return "", "", err
	}

	name, ok := config["user.name"]
	if !ok || name == "" {
		return "", "", fmt.Errorf("no user.name configured for repository")
	}

	email, ok = config["user.email"]
	if !ok || email == "" {
		return "", "", fmt.Errorf("no user.email configured for repository")
	}

	return name, email, nil
}
