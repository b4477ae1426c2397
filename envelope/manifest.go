package envelope

import (
	"encoding/json"
	"errors"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the metadata block that describes a payload.
//
// The manifest is read by application code that routes, stores, and
// processes data: it names the payload's type and schema version, the
// identity of its origination point, and when the envelope was created.
// Arbitrary additional context travels as key-value string labels.
//
// Example, as encoded on the wire:
//
//	{
//	  "manifest": {
//	    "domain": "example.org",
//	    "scope": "metrics/applications/some-app",
//	    "kind": "useractions",
//	    "version": 2,
//	    "origin": "some-app-03.example.org",
//	    "ctime": "2020-08-25T14:41:40Z",
//	    "labels": {"app-version": "2.3.1"}
//	  }
//	}
//
// A Manifest is treated as immutable once placed in an envelope; callers
// needing a changed manifest construct a new value.
type Manifest struct {
	// Domain is a DNS name identifying the organization that defines the
	// type's schema.
	Domain string

	// Scope is an arbitrary namespace element, conventionally formatted
	// as a path.
	Scope string

	// Kind is the name of the payload type.
	Kind string

	// Version is the version of the type's schema.
	Version uint64

	// Origin is the identity of the source of this content.
	Origin string

	// CTime is the UTC timestamp at which the envelope was created.
	//
	// This is not necessarily the timestamp at which the data was
	// sourced or collected. Types requiring that degree of precision are
	// responsible for conveying it themselves.
	CTime time.Time

	// Labels carries arbitrary key-value string pairs. It is omitted
	// from encoded output when empty and decodes to an empty map when
	// absent from the input.
	Labels map[string]string
}

// manifestWire is the serialized shape of a Manifest. Pointer fields make
// absence detectable, since neither encoding/json nor yaml.v3 fails on a
// missing struct field by itself.
type manifestWire struct {
	Domain  *string           `json:"domain" yaml:"domain"`
	Scope   *string           `json:"scope" yaml:"scope"`
	Kind    *string           `json:"kind" yaml:"kind"`
	Version *uint64           `json:"version" yaml:"version"`
	Origin  *string           `json:"origin" yaml:"origin"`
	CTime   *time.Time        `json:"ctime" yaml:"ctime"`
	Labels  map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// requiredManifestFields is the check order for missing-field errors.
var requiredManifestFields = []string{"domain", "scope", "kind", "version", "origin", "ctime"}

func (w *manifestWire) toManifest() (Manifest, error) {
	present := map[string]bool{
		"domain":  w.Domain != nil,
		"scope":   w.Scope != nil,
		"kind":    w.Kind != nil,
		"version": w.Version != nil,
		"origin":  w.Origin != nil,
		"ctime":   w.CTime != nil,
	}
	for _, f := range requiredManifestFields {
		if !present[f] {
			return Manifest{}, newError(KindMissingField, f, "manifest field "+f+" is required")
		}
	}
	labels := w.Labels
	if labels == nil {
		labels = map[string]string{}
	}
	return Manifest{
		Domain:  *w.Domain,
		Scope:   *w.Scope,
		Kind:    *w.Kind,
		Version: *w.Version,
		Origin:  *w.Origin,
		CTime:   *w.CTime,
		Labels:  labels,
	}, nil
}

func (m Manifest) toWire() manifestWire {
	w := manifestWire{
		Domain:  &m.Domain,
		Scope:   &m.Scope,
		Kind:    &m.Kind,
		Version: &m.Version,
		Origin:  &m.Origin,
		CTime:   &m.CTime,
	}
	// Explicit presence check: empty and absent labels must be
	// indistinguishable on the wire.
	if len(m.Labels) > 0 {
		w.Labels = m.Labels
	}
	return w
}

// MarshalJSON encodes the manifest with its labels omitted when empty.
func (m Manifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.toWire())
}

// UnmarshalJSON decodes a manifest, failing on any missing required field
// or field of the wrong type.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var w manifestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return classifyJSONErr(err)
	}
	dec, err := w.toManifest()
	if err != nil {
		return err
	}
	*m = dec
	return nil
}

// MarshalYAML encodes the manifest with its labels omitted when empty.
func (m Manifest) MarshalYAML() (any, error) {
	return m.toWire(), nil
}

// UnmarshalYAML decodes a manifest with the same required-field and type
// enforcement as UnmarshalJSON.
func (m *Manifest) UnmarshalYAML(value *yaml.Node) error {
	var w manifestWire
	if err := value.Decode(&w); err != nil {
		return classifyYAMLErr(err)
	}
	dec, err := w.toManifest()
	if err != nil {
		return err
	}
	*m = dec
	return nil
}

// Equal reports field equality, comparing timestamps as instants rather
// than textual forms.
func (m Manifest) Equal(o Manifest) bool {
	if m.Domain != o.Domain || m.Scope != o.Scope || m.Kind != o.Kind ||
		m.Version != o.Version || m.Origin != o.Origin {
		return false
	}
	if !m.CTime.Equal(o.CTime) {
		return false
	}
	if len(m.Labels) != len(o.Labels) {
		return false
	}
	for k, v := range m.Labels {
		if ov, ok := o.Labels[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// classifyJSONErr maps an encoding/json failure onto the error taxonomy,
// leaving already-structured errors untouched.
func classifyJSONErr(err error) error {
	var structured *Error
	if errors.As(err, &structured) {
		return err
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return wrapError(KindTypeMismatch, typeErr.Field, "field has wrong type", err)
	}
	var timeErr *time.ParseError
	if errors.As(err, &timeErr) {
		return wrapError(KindTypeMismatch, "ctime", "invalid timestamp", err)
	}
	return wrapError(KindParse, "", "malformed input", err)
}

// classifyYAMLErr maps a yaml.v3 failure onto the error taxonomy.
func classifyYAMLErr(err error) error {
	var structured *Error
	if errors.As(err, &structured) {
		return err
	}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return wrapError(KindTypeMismatch, "", "field has wrong type", err)
	}
	return wrapError(KindParse, "", "malformed input", err)
}
