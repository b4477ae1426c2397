package envelope

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Header is an elemental envelope consisting of only a manifest.
//
// Every blob encoded under the intermodal convention decodes into a
// Header regardless of its payload shape, because decoding is open-world:
// payload fields present in the input are ignored. Generic handlers
// decode a blob into a Header first and use the manifest to determine a
// more precise type for the message. A Header discards the payload
// outright; recovering it means re-decoding the original blob into an
// Envelope, not reconstructing it from the Header.
type Header struct {
	Manifest Manifest
}

// NewHeader wraps a manifest in a Header.
func NewHeader(m Manifest) Header {
	return Header{Manifest: m}
}

// Equal reports field equality of the wrapped manifests.
func (h Header) Equal(o Header) bool {
	return h.Manifest.Equal(o.Manifest)
}

// headerWire accepts the canonical "manifest" key and the deprecated
// "meta" alias. Only the canonical key is ever emitted.
type headerWire struct {
	Manifest json.RawMessage `json:"manifest"`
	Meta     json.RawMessage `json:"meta"`
}

func (h Header) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Manifest Manifest `json:"manifest"`
	}{h.Manifest})
}

func (h *Header) UnmarshalJSON(data []byte) error {
	var w headerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return classifyJSONErr(err)
	}
	raw := w.Manifest
	if raw == nil {
		raw = w.Meta
	}
	if raw == nil {
		return newError(KindMissingField, "manifest", "manifest is required")
	}
	if isJSONNull(raw) {
		return newError(KindMissingField, "manifest", "manifest must not be null")
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return classifyJSONErr(err)
	}
	h.Manifest = m
	return nil
}

// Value (not pointer) yaml.Node fields: yaml.v3's raw-node capture only
// applies to yaml.Node values, so a *yaml.Node field would be decoded
// field-by-field into the Node struct instead. A zero node marks absence.
type headerYAMLWire struct {
	Manifest yaml.Node `yaml:"manifest"`
	Meta     yaml.Node `yaml:"meta"`
}

func (h Header) MarshalYAML() (any, error) {
	return struct {
		Manifest Manifest `yaml:"manifest"`
	}{h.Manifest}, nil
}

func (h *Header) UnmarshalYAML(value *yaml.Node) error {
	var w headerYAMLWire
	if err := value.Decode(&w); err != nil {
		return classifyYAMLErr(err)
	}
	node := &w.Manifest
	if node.IsZero() {
		node = &w.Meta
	}
	if node.IsZero() {
		return newError(KindMissingField, "manifest", "manifest is required")
	}
	if isYAMLNull(node) {
		return newError(KindMissingField, "manifest", "manifest must not be null")
	}
	var m Manifest
	if err := node.Decode(&m); err != nil {
		return classifyYAMLErr(err)
	}
	h.Manifest = m
	return nil
}
