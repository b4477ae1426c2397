package codec

import (
	"testing"
	"time"

	"xdao.co/intermodal/envelope"
)

type reading struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit" yaml:"unit"`
}

func sampleEnvelope() envelope.Envelope[reading] {
	return envelope.New(envelope.Manifest{
		Domain:  "example.org",
		Scope:   "metrics",
		Kind:    "reading",
		Version: 1,
		Origin:  "host-03",
		CTime:   time.Date(2020, 8, 25, 14, 41, 40, 500000000, time.UTC),
		Labels:  map[string]string{"rack": "r7"},
	}, reading{Value: 3.5, Unit: "V"})
}

func TestContentTypes(t *testing.T) {
	if got := (JSON{}).ContentType(); got != "application/json" {
		t.Fatalf("JSON content type: got %q", got)
	}
	if got := (YAML{}).ContentType(); got != "application/yaml" {
		t.Fatalf("YAML content type: got %q", got)
	}
}

func TestEncodeDecode_BothCodecs(t *testing.T) {
	for _, c := range []Codec{JSON{}, YAML{}} {
		e := sampleEnvelope()

		b, err := Encode(c, e)
		if err != nil {
			t.Fatalf("%s Encode: %v", c.ContentType(), err)
		}

		h, err := DecodeHeader(c, b)
		if err != nil {
			t.Fatalf("%s DecodeHeader: %v", c.ContentType(), err)
		}
		if !h.Manifest.Equal(e.Manifest) {
			t.Fatalf("%s header manifest differs", c.ContentType())
		}

		back, err := Decode[reading](c, b)
		if err != nil {
			t.Fatalf("%s Decode: %v", c.ContentType(), err)
		}
		if !back.Manifest.Equal(e.Manifest) {
			t.Fatalf("%s round trip changed the manifest", c.ContentType())
		}
		if back.Payload != e.Payload {
			t.Fatalf("%s round trip changed the payload: %#v", c.ContentType(), back.Payload)
		}
		if !back.Manifest.CTime.Equal(e.Manifest.CTime) {
			t.Fatalf("%s sub-second precision lost: %v", c.ContentType(), back.Manifest.CTime)
		}
	}
}

func TestDecode_PayloadShapeMismatch(t *testing.T) {
	b, err := Encode(JSON{}, sampleEnvelope())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, err = Decode[string](JSON{}, b)
	if err == nil {
		t.Fatalf("expected structured payload to reject Envelope[string]")
	}
	if !envelope.IsKind(err, envelope.KindPayloadShape) {
		t.Fatalf("expected KindPayloadShape, got %v", err)
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	for _, c := range []Codec{JSON{}, YAML{}} {
		if _, err := DecodeHeader(c, nil); !envelope.IsKind(err, envelope.KindParse) {
			t.Fatalf("%s DecodeHeader(nil): expected KindParse, got %v", c.ContentType(), err)
		}
		if _, err := Decode[reading](c, []byte("  \n")); !envelope.IsKind(err, envelope.KindParse) {
			t.Fatalf("%s Decode(blank): expected KindParse, got %v", c.ContentType(), err)
		}
	}
}

func TestDecode_MalformedInput(t *testing.T) {
	if _, err := DecodeHeader(JSON{}, []byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if _, err := DecodeHeader(YAML{}, []byte(":\n  - {")); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
}

func TestDecode_NoPartialResult(t *testing.T) {
	// Valid manifest, payload that does not match T: the decode must fail
	// as a whole rather than hand back a manifest-only envelope.
	blob := []byte(`{"manifest":{"domain":"d","scope":"s","kind":"k","version":1,"origin":"o","ctime":"2020-08-25T14:41:40Z"},"payload":"just a string"}`)

	got, err := Decode[reading](JSON{}, blob)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got.Manifest.Domain != "" || got.Manifest.Kind != "" {
		t.Fatalf("failed decode must not return a partial envelope: %#v", got)
	}
	if !envelope.IsKind(err, envelope.KindPayloadShape) {
		t.Fatalf("expected KindPayloadShape, got %v", err)
	}
}
