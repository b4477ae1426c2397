package codec

import (
	"bytes"

	"xdao.co/intermodal/envelope"
)

// DecodeHeader decodes a blob of unknown payload type into a Header so
// the manifest can be inspected.
func DecodeHeader(c Codec, data []byte) (envelope.Header, error) {
	if err := checkNonEmpty(data); err != nil {
		return envelope.Header{}, err
	}
	var h envelope.Header
	if err := c.Unmarshal(data, &h); err != nil {
		return envelope.Header{}, err
	}
	return h, nil
}

// Decode decodes a blob into a typed envelope. The decode fails as a
// whole when the payload does not match T; no partial result is returned.
func Decode[T any](c Codec, data []byte) (envelope.Envelope[T], error) {
	if err := checkNonEmpty(data); err != nil {
		return envelope.Envelope[T]{}, err
	}
	var e envelope.Envelope[T]
	if err := c.Unmarshal(data, &e); err != nil {
		return envelope.Envelope[T]{}, err
	}
	return e, nil
}

// Encode serializes a typed envelope.
func Encode[T any](c Codec, e envelope.Envelope[T]) ([]byte, error) {
	return c.Marshal(e)
}

// checkNonEmpty rejects empty documents up front. yaml.v3 decodes an
// empty document into an untouched zero value rather than failing, which
// would otherwise let a required-field-less blob slip through.
func checkNonEmpty(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &envelope.Error{Kind: envelope.KindParse, Message: "empty input"}
	}
	return nil
}
