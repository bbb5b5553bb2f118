/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
	"github.com/tomoncle/mediatek/types"
)

var errNotObject = errors.New("expected a JSON object")

// parseFields decodes a JSON object, comments and trailing commas allowed.
// "-" reads the object from in. Numbers are kept as json.Number.
func parseFields(arg string, in io.Reader) (types.Fields, error) {
	data := []byte(arg)
	if arg == "-" {
		var err error
		if data, err = io.ReadAll(in); err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		return types.Fields(v), nil
	case nil:
		return types.Fields{}, nil
	default:
		return nil, errNotObject
	}
}

// writeJSON prints v as indented JSON to out, or replaces the file at path
// atomically when path is set.
func writeJSON(out io.Writer, path string, v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	buf = append(buf, '\n')
	if path == "" {
		_, err = out.Write(buf)
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// atomic.WriteFile creates new files with mode 0600.
	return os.Chmod(path, 0o644)
}
