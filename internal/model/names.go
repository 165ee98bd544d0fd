package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidNames is returned when name data has an unsupported shape.
var ErrInvalidNames = errors.New("invalid names: expected a string, a list of strings, or a list of lists of strings")

// Names holds the name data attached to a domain check.
//
// Each element is one person, described by raw name fragments such as
// {"John Smith"} or {"John", "Smith"}. Fragments are split on whitespace
// and normalized later by the candidate generator.
//
// Three input shapes are accepted when decoding YAML or JSON:
//
//	names: "John Smith"                       # one person
//	names: ["John", "Smith"]                  # one person
//	names: [["John", "Smith"], ["Jane Doe"]]  # several people
type Names [][]string

// NamesFromString builds Names for one person from a free-form string.
func NamesFromString(s string) Names {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return Names{{s}}
}

// NamesFromFragments builds Names for one person from name fragments.
func NamesFromFragments(fragments ...string) Names {
	if len(fragments) == 0 {
		return nil
	}
	person := make([]string, len(fragments))
	copy(person, fragments)
	return Names{person}
}

// IsEmpty reports whether no person carries any non-blank fragment.
func (n Names) IsEmpty() bool {
	for _, person := range n {
		for _, fragment := range person {
			if strings.TrimSpace(fragment) != "" {
				return false
			}
		}
	}
	return true
}

// String renders the people separated by "; ", each as its fragments
// joined with spaces.
func (n Names) String() string {
	people := make([]string, 0, len(n))
	for _, person := range n {
		if p := strings.TrimSpace(strings.Join(person, " ")); p != "" {
			people = append(people, p)
		}
	}
	return strings.Join(people, "; ")
}

// key returns an exact structural fingerprint used for deduplication.
// Unit and record separators cannot appear in decoded YAML/JSON scalars
// without escaping, so the encoding is unambiguous in practice.
func (n Names) key() string {
	var sb strings.Builder
	for i, person := range n {
		if i > 0 {
			sb.WriteByte(0x1e)
		}
		sb.WriteString(strings.Join(person, "\x1f"))
	}
	return sb.String()
}

// UnmarshalYAML decodes any of the accepted name shapes.
func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*n = NamesFromString(s)
		return nil
	case yaml.SequenceNode:
		out := make(Names, 0, len(node.Content))
		var flat []string
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				flat = append(flat, item.Value)
			case yaml.SequenceNode:
				var person []string
				if err := item.Decode(&person); err != nil {
					return fmt.Errorf("%w: %w", ErrInvalidNames, err)
				}
				out = append(out, person)
			default:
				return fmt.Errorf("%w (line %d)", ErrInvalidNames, item.Line)
			}
		}
		if len(flat) > 0 {
			if len(out) > 0 {
				return fmt.Errorf("%w: mixed strings and lists (line %d)", ErrInvalidNames, node.Line)
			}
			out = Names{flat}
		}
		*n = out
		return nil
	default:
		return fmt.Errorf("%w (line %d)", ErrInvalidNames, node.Line)
	}
}

// UnmarshalJSON decodes any of the accepted name shapes.
func (n *Names) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = NamesFromString(s)
		return nil
	}

	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		*n = NamesFromFragments(flat...)
		return nil
	}

	var nested [][]string
	if err := json.Unmarshal(data, &nested); err != nil {
		return ErrInvalidNames
	}
	*n = nested
	return nil
}

// MarshalJSON always encodes the nested form; no names encode as [].
func (n Names) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([][]string(n))
}
