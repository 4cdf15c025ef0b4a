package ordered

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes a single JSON document. Numbers are kept as
// json.Number so that literals round-trip with their original text.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decoding JSON: unexpected data after top-level value")
	}

	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (Object, error) {
	obj := Object{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		obj = append(obj, Member{Key: key, Value: val})
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}

	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		arr = append(arr, val)
	}

	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return arr, nil
}

// DecodeYAML decodes a single YAML document.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}

	if doc.Kind == 0 {
		return nil, nil
	}

	return FromYAML(&doc)
}

// FromYAML converts a parsed YAML node into an ordered value.
func FromYAML(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return FromYAML(node.Content[0])

	case yaml.MappingNode:
		obj := make(Object, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}

			val, err := FromYAML(valNode)
			if err != nil {
				return nil, err
			}

			obj = append(obj, Member{Key: keyNode.Value, Value: val})
		}

		return obj, nil

	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))

		for _, item := range node.Content {
			val, err := FromYAML(item)
			if err != nil {
				return nil, err
			}

			arr = append(arr, val)
		}

		return arr, nil

	case yaml.AliasNode:
		return FromYAML(node.Alias)

	case yaml.ScalarNode:
		// timestamps have no JSON form; keep the text as written
		if node.ShortTag() == "!!timestamp" {
			return node.Value, nil
		}

		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return v, nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", node.Line, node.Kind)
	}
}
