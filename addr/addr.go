// Package addr derives stable content addresses for encoded envelopes.
//
// Routers and storage writers use the address to deduplicate and
// reference blobs without understanding their payload schema. Addresses
// are derived from canonical bytes, so equivalent blobs that differ only
// in key order or whitespace share one address.
package addr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/intermodal/codec"
	"xdao.co/intermodal/envelope"
)

// Canonical renders a JSON blob into its canonical form: one compact
// document, object keys sorted lexicographically, numbers preserved
// verbatim. Non-JSON input is rejected.
func Canonical(blob []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("canonical form requires well-formed JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON document")
	}
	// encoding/json emits object keys in sorted order; json.Number keeps
	// numeric literals byte-identical to the input.
	return json.Marshal(v)
}

// CID returns an IPFS-compatible CIDv1 (raw multicodec + sha2-256
// multihash) for an envelope blob. The blob is canonicalized first.
func CID(blob []byte) (string, error) {
	canon, err := Canonical(blob)
	if err != nil {
		return "", fmt.Errorf("canonical bytes required: %w", err)
	}
	sum, err := multihash.Sum(canon, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}

// EncodeWithCID encodes a typed envelope as JSON and returns the encoded
// bytes together with their CID.
func EncodeWithCID[T any](e envelope.Envelope[T]) ([]byte, string, error) {
	b, err := codec.Encode(codec.JSON{}, e)
	if err != nil {
		return nil, "", err
	}
	id, err := CID(b)
	if err != nil {
		return nil, "", err
	}
	return b, id, nil
}
