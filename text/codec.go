package text

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes r as the two-element array [start, end].
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Unit{r.start, r.end})
}

// UnmarshalJSON decodes a two-element array [start, end].
func (r *Range) UnmarshalJSON(data []byte) error {
	var pair []Unit
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode text range: %w", err)
	}
	decoded, err := fromPair(pair)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

// MarshalYAML encodes r as the flow sequence [start, end].
func (r Range) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, u := range []Unit{r.start, r.end} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: u.String(),
		})
	}
	return node, nil
}

// UnmarshalYAML decodes a two-element sequence [start, end].
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	var pair []Unit
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("decode text range: %w", err)
	}
	decoded, err := fromPair(pair)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

func fromPair(pair []Unit) (Range, error) {
	if len(pair) != 2 {
		return Range{}, fmt.Errorf("decode text range: want 2 offsets, got %d", len(pair))
	}
	if pair[0] > pair[1] {
		return Range{}, fmt.Errorf("decode text range: start %d is after end %d", pair[0], pair[1])
	}
	return Range{start: pair[0], end: pair[1]}, nil
}
