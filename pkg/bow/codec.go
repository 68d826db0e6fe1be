package bow

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the value as T would encode it.
func (b Bow[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Ref())
}

// UnmarshalJSON decodes into a fresh value and leaves b owning it. A
// borrowed source is never written to.
func (b *Bow[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = Owned(v)
	return nil
}

// MarshalYAML encodes the value as T would encode it.
func (b Bow[T]) MarshalYAML() (any, error) {
	return b.Ref(), nil
}

// UnmarshalYAML decodes into a fresh value and leaves b owning it.
func (b *Bow[T]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*b = Owned(v)
	return nil
}
