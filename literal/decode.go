// Copyright © 2024 The ELPS authors

package literal

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/luthersystems/gleamconsole/value"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Decode reads every JSON or YAML document from r.  Mappings become plain
// *value.Object values with their keys in document order, sequences
// become slices and null becomes nil.
func Decode(r io.Reader) ([]any, error) {
	dec := yaml.NewDecoder(r)
	var docs []any
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return docs, errors.Wrapf(err, "document %d", len(docs)+1)
		}
		v, err := fromNode(&doc)
		if err != nil {
			return docs, errors.Wrapf(err, "document %d", len(docs)+1)
		}
		docs = append(docs, v)
	}
}

// DecodeBytes is Decode over an in-memory document stream.
func DecodeBytes(b []byte) ([]any, error) {
	return Decode(bytes.NewReader(b))
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		obj := value.NewObject("")
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			v, err := fromNode(val)
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, v)
		}
		return obj, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return v, nil
	}
	return nil, errors.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

// ReadFile reads the values in the named file: JSON and YAML documents for
// .json, .yaml and .yml files, Gleam literals otherwise.
func ReadFile(name string) ([]any, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read values")
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return DecodeBytes(b)
	}
	return Parse(b)
}
