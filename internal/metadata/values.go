// Copyright The metagit Authors
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mscottuk/metagit/internal/metaerrors"
	"github.com/mscottuk/metagit/internal/metapath"
)

// ParseKeyValue splits a `key=value` argument into its parts. The value may
// itself contain '='; only the first one separates key from value.
func ParseKeyValue(arg string) (key, value string, err error) {
	key, value, found := strings.Cut(arg, "=")
	if !found || key == "" {
		return "", "", fmt.Errorf("%w: %q is not in key=value format", metaerrors.ErrParameterError, arg)
	}

	return key, value, nil
}

// KeyValue is one key/value pair from a JSON metadata blob.
type KeyValue struct {
	Key   string
	Value any
}

// SetValue merges a single key/value pair into the JSON metadata blob for p,
// then writes the result back as a new metadata commit. If no blob exists at
// the computed path yet (or the metadata reference itself doesn't exist),
// the merge starts from an empty JSON object. A blob that exists but does
// not parse as JSON is rejected rather than silently replaced.
func (e *Engine) SetValue(p *metapath.Path, key, value string, force bool) error {
	document := map[string]any{}

	payload, err := e.Read(p)
	switch {
	case err == nil:
		if err := json.Unmarshal(payload, &document); err != nil {
			return fmt.Errorf("%w: %s", metaerrors.ErrMetadataFormatError, err.Error())
		}
	case errors.Is(err, metaerrors.ErrMetadataBlobNotFound), errors.Is(err, metaerrors.ErrNoMetadataReference):
		// no prior metadata, start from {}
	default:
		return err
	}

	document[key] = value

	newPayload, err := json.Marshal(document)
	if err != nil {
		return err
	}

	return e.Write(p, newPayload, force)
}

// Values reads the metadata blob for p as a JSON object and returns its
// key/value pairs in key order, optionally filtered by an exact key and/or
// an exact value. Value filters compare against the value's default string
// rendering, so `--value 1` matches the JSON number 1.
func (e *Engine) Values(p *metapath.Path, keyFilter, valueFilter string) ([]KeyValue, error) {
	payload, err := e.Read(p)
	if err != nil {
		return nil, err
	}

	document := map[string]any{}
	if err := json.Unmarshal(payload, &document); err != nil {
		return nil, fmt.Errorf("%w: %s", metaerrors.ErrMetadataFormatError, err.Error())
	}

	keys := make([]string, 0, len(document))
	for key := range document {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := []KeyValue{}
	for _, key := range keys {
		value := document[key]
		if keyFilter != "" && keyFilter != key {
			continue
		}
		if valueFilter != "" && valueFilter != fmt.Sprintf("%v", value) {
			continue
		}
		pairs = append(pairs, KeyValue{Key: key, Value: value})
	}

	return pairs, nil
}
