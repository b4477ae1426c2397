// Package codec provides the structured codecs used to move envelopes on
// and off the wire.
//
// Both codecs decode open-world: fields present in the input but not
// declared on the target type are ignored. That behavior is a
// correctness requirement of the enveloping convention, not an
// optimization, because a Header must decode from blobs carrying
// arbitrary payload fields.
package codec

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec is the serialization contract for envelope blobs.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Marshal serializes a value to bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes bytes into a value. The target must be a
	// pointer.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for metadata propagation.
	ContentType() string
}

// JSON implements Codec using encoding/json.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSON) ContentType() string {
	return "application/json"
}

// YAML implements Codec using gopkg.in/yaml.v3.
type YAML struct{}

func (YAML) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAML) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (YAML) ContentType() string {
	return "application/yaml"
}

var (
	_ Codec = JSON{}
	_ Codec = YAML{}
)
