package addr

import (
	"strings"
	"testing"
	"time"

	"xdao.co/intermodal/envelope"
)

func TestCanonical_KeyOrderInvariance(t *testing.T) {
	a := []byte(`{"b": 2, "a": 1, "nested": {"y": true, "x": "v"}}`)
	b := []byte(`{
		"nested": {"x": "v", "y": true},
		"a": 1,
		"b": 2
	}`)

	ca, err := Canonical(a)
	if err != nil {
		t.Fatalf("Canonical(a): %v", err)
	}
	cb, err := Canonical(b)
	if err != nil {
		t.Fatalf("Canonical(b): %v", err)
	}
	if string(ca) != string(cb) {
		t.Fatalf("canonical forms differ:\n  a: %s\n  b: %s", ca, cb)
	}
}

func TestCanonical_PreservesNumbers(t *testing.T) {
	got, err := Canonical([]byte(`{"i": 10, "f": 1.50, "big": 9007199254740993}`))
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	s := string(got)
	for _, lit := range []string{"10", "1.50", "9007199254740993"} {
		if !strings.Contains(s, lit) {
			t.Fatalf("numeric literal %s mangled in %s", lit, s)
		}
	}
}

func TestCanonical_RejectsMalformed(t *testing.T) {
	if _, err := Canonical([]byte("{oops")); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if _, err := Canonical([]byte(`{"a":1} trailing`)); err == nil {
		t.Fatalf("expected error for trailing data")
	}
	if _, err := Canonical(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestCID_StableUnderReordering(t *testing.T) {
	a := []byte(`{"manifest":{"kind":"cpu","version":1},"payload":{"x":1}}`)
	b := []byte(`{"payload":{"x":1},"manifest":{"version":1,"kind":"cpu"}}`)

	ida, err := CID(a)
	if err != nil {
		t.Fatalf("CID(a): %v", err)
	}
	idb, err := CID(b)
	if err != nil {
		t.Fatalf("CID(b): %v", err)
	}
	if ida != idb {
		t.Fatalf("CID not invariant under key order: %q vs %q", ida, idb)
	}
	// CIDv1 base32 strings carry the multibase prefix.
	if !strings.HasPrefix(ida, "b") {
		t.Fatalf("expected CIDv1 base32 string, got %q", ida)
	}

	idc, err := CID([]byte(`{"manifest":{"kind":"mem","version":1},"payload":{"x":1}}`))
	if err != nil {
		t.Fatalf("CID(c): %v", err)
	}
	if idc == ida {
		t.Fatalf("different blobs must not share a CID")
	}
}

func TestEncodeWithCID_Stable(t *testing.T) {
	e := envelope.New(envelope.Manifest{
		Domain:  "example.org",
		Scope:   "metrics",
		Kind:    "cpu",
		Version: 1,
		Origin:  "host-03",
		CTime:   time.Date(2020, 8, 25, 14, 41, 40, 0, time.UTC),
		Labels:  map[string]string{"foo": "bar"},
	}, map[string]int{"interval_seconds": 10})

	b1, id1, err := EncodeWithCID(e)
	if err != nil {
		t.Fatalf("EncodeWithCID: %v", err)
	}
	b2, id2, err := EncodeWithCID(e)
	if err != nil {
		t.Fatalf("EncodeWithCID: %v", err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("expected identical encoded bytes")
	}
	if id1 != id2 {
		t.Fatalf("expected identical CIDs")
	}

	want, err := CID(b1)
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if id1 != want {
		t.Fatalf("CID mismatch: got %q want %q", id1, want)
	}
}
