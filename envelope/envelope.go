package envelope

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Envelope is the complete data structure: a manifest plus the content it
// describes. The payload type T is any field-named structured type
// meeting the same (de)serialization contract as the Manifest itself.
//
// An Envelope owns both its manifest and its payload; envelopes never
// share state with one another.
type Envelope[T any] struct {
	Manifest Manifest
	Payload  T
}

// New pairs a manifest with a payload.
func New[T any](m Manifest, payload T) Envelope[T] {
	return Envelope[T]{Manifest: m, Payload: payload}
}

// FromHeader pairs previously-extracted metadata with a payload. This is
// how a dispatcher that has already read a Header and separately obtained
// a payload combines them back into a full envelope without re-decoding
// the manifest.
func FromHeader[T any](h Header, payload T) Envelope[T] {
	return Envelope[T]{Manifest: h.Manifest, Payload: payload}
}

// Header projects the envelope down to its manifest, discarding the
// payload. The projection succeeds unconditionally for any T.
func (e Envelope[T]) Header() Header {
	return Header{Manifest: e.Manifest}
}

// envelopeWire accepts the canonical "manifest"/"payload" keys and the
// deprecated aliases: "content" (the original payload naming), "meta",
// and "data". Canonical keys win when both spellings appear; only
// canonical keys are ever emitted. Payload precedence is
// payload > content > data.
type envelopeWire struct {
	Manifest json.RawMessage `json:"manifest"`
	Payload  json.RawMessage `json:"payload"`
	Meta     json.RawMessage `json:"meta"`
	Content  json.RawMessage `json:"content"`
	Data     json.RawMessage `json:"data"`
}

// isJSONNull reports an explicit JSON null. A null manifest or payload is
// present but unusable: decoding it into a struct target is a no-op, and
// letting it through would hand back zeroed fields instead of a failure.
func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// isYAMLNull reports an explicit YAML null node (!!null), the YAML
// counterpart of isJSONNull.
func isYAMLNull(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Manifest Manifest `json:"manifest"`
		Payload  T        `json:"payload"`
	}{e.Manifest, e.Payload})
}

// UnmarshalJSON decodes a complete envelope. The decode fails as a whole
// when either the manifest or the payload portion is unusable; a
// manifest-only partial result is never produced.
func (e *Envelope[T]) UnmarshalJSON(data []byte) error {
	var w envelopeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return classifyJSONErr(err)
	}
	mraw := w.Manifest
	if mraw == nil {
		mraw = w.Meta
	}
	if mraw == nil {
		return newError(KindMissingField, "manifest", "manifest is required")
	}
	if isJSONNull(mraw) {
		return newError(KindMissingField, "manifest", "manifest must not be null")
	}
	praw := w.Payload
	if praw == nil {
		praw = w.Content
	}
	if praw == nil {
		praw = w.Data
	}
	if praw == nil {
		return newError(KindMissingField, "payload", "payload is required")
	}
	if isJSONNull(praw) {
		return newError(KindPayloadShape, "payload", "payload must not be null")
	}
	var m Manifest
	if err := json.Unmarshal(mraw, &m); err != nil {
		return classifyJSONErr(err)
	}
	var p T
	if err := json.Unmarshal(praw, &p); err != nil {
		return wrapError(KindPayloadShape, "payload", "payload does not match requested type", err)
	}
	e.Manifest, e.Payload = m, p
	return nil
}

// Value (not pointer) yaml.Node fields: yaml.v3's raw-node capture only
// applies to yaml.Node values, so a *yaml.Node field would be decoded
// field-by-field into the Node struct instead. A zero node marks absence.
type envelopeYAMLWire struct {
	Manifest yaml.Node `yaml:"manifest"`
	Payload  yaml.Node `yaml:"payload"`
	Meta     yaml.Node `yaml:"meta"`
	Content  yaml.Node `yaml:"content"`
	Data     yaml.Node `yaml:"data"`
}

func (e Envelope[T]) MarshalYAML() (any, error) {
	return struct {
		Manifest Manifest `yaml:"manifest"`
		Payload  T        `yaml:"payload"`
	}{e.Manifest, e.Payload}, nil
}

func (e *Envelope[T]) UnmarshalYAML(value *yaml.Node) error {
	var w envelopeYAMLWire
	if err := value.Decode(&w); err != nil {
		return classifyYAMLErr(err)
	}
	mnode := &w.Manifest
	if mnode.IsZero() {
		mnode = &w.Meta
	}
	if mnode.IsZero() {
		return newError(KindMissingField, "manifest", "manifest is required")
	}
	if isYAMLNull(mnode) {
		return newError(KindMissingField, "manifest", "manifest must not be null")
	}
	pnode := &w.Payload
	if pnode.IsZero() {
		pnode = &w.Content
	}
	if pnode.IsZero() {
		pnode = &w.Data
	}
	if pnode.IsZero() {
		return newError(KindMissingField, "payload", "payload is required")
	}
	if isYAMLNull(pnode) {
		return newError(KindPayloadShape, "payload", "payload must not be null")
	}
	var m Manifest
	if err := mnode.Decode(&m); err != nil {
		return classifyYAMLErr(err)
	}
	var p T
	if err := pnode.Decode(&p); err != nil {
		return wrapError(KindPayloadShape, "payload", "payload does not match requested type", err)
	}
	e.Manifest, e.Payload = m, p
	return nil
}
