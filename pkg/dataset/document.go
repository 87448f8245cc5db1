// Package dataset loads per-environment test data and resolves
// ${common.path} references against the shared common document.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Document is a free-form data document: nested mappings,
// sequences and scalars as produced by JSON or YAML decoding.
type Document = map[string]any

// documentExtensions lists accepted file formats in lookup
// order. JSON wins when several exist.
var documentExtensions = []string{".json", ".yaml", ".yml"}

// readDocument loads base+ext for the first extension that
// exists. The returned path is the file that was read. A
// missing document yields an error matching fs.ErrNotExist.
func readDocument(base string) (Document, string, error) {
	for _, ext := range documentExtensions {
		path := base + ext
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("read %s: %w", path, err)
		}
		doc, err := decodeDocument(data, ext)
		if err != nil {
			return nil, path, fmt.Errorf("parse %s: %w", path, err)
		}
		return doc, path, nil
	}
	return nil, base + documentExtensions[0], fmt.Errorf(
		"document %s: %w", filepath.Base(base), fs.ErrNotExist,
	)
}

func decodeDocument(data []byte, ext string) (Document, error) {
	var doc Document
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		doc, _ = normalize(raw).(map[string]any)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// normalize converts YAML-specific shapes into the JSON-like
// shapes the resolver walks.
func normalize(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// deepCopy returns a copy of node sharing no mappings or
// sequences with the original.
func deepCopy(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

// toInt converts decoded numbers to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	default:
		return 0, false
	}
}
