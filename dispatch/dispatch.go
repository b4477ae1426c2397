// Package dispatch selects concrete payload types for envelope blobs.
//
// A dispatcher receives encoded blobs whose payload type it does not know
// up front. It decodes the Header, reads the manifest's kind and version,
// and re-decodes the same blob into the envelope type registered for that
// pair. Package dispatch packages that two-pass flow behind a registry.
package dispatch

import (
	"errors"
	"fmt"
	"sync"

	"xdao.co/intermodal/codec"
	"xdao.co/intermodal/envelope"
)

var (
	// ErrUnknownKind reports a manifest kind/version with no registered
	// payload type.
	ErrUnknownKind = errors.New("no payload type registered")

	// ErrDuplicate reports a second registration for the same
	// kind/version pair.
	ErrDuplicate = errors.New("payload type already registered")
)

type key struct {
	kind    string
	version uint64
}

type decodeFunc func(c codec.Codec, data []byte) (envelope.Manifest, any, error)

// Registry maps (kind, version) pairs to concrete payload types.
// Lookup is safe for concurrent use; registration is expected to happen
// during setup.
type Registry struct {
	mu    sync.RWMutex
	types map[key]decodeFunc
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[key]decodeFunc)}
}

// Register binds payload type T to a kind/version pair. Subsequent blobs
// whose manifest carries that pair dispatch into Envelope[T].
func Register[T any](r *Registry, kind string, version uint64) error {
	k := key{kind: kind, version: version}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[k]; ok {
		return fmt.Errorf("%w: %s/v%d", ErrDuplicate, kind, version)
	}
	r.types[k] = func(c codec.Codec, data []byte) (envelope.Manifest, any, error) {
		e, err := codec.Decode[T](c, data)
		if err != nil {
			return envelope.Manifest{}, nil, err
		}
		return e.Manifest, e.Payload, nil
	}
	return nil
}

// Dispatch decodes the blob's Header, selects the registered payload type
// for its kind/version, and re-decodes the blob into that type. The
// returned payload holds the concrete registered type.
func (r *Registry) Dispatch(c codec.Codec, data []byte) (envelope.Manifest, any, error) {
	h, err := codec.DecodeHeader(c, data)
	if err != nil {
		return envelope.Manifest{}, nil, err
	}
	k := key{kind: h.Manifest.Kind, version: h.Manifest.Version}
	r.mu.RLock()
	fn, ok := r.types[k]
	r.mu.RUnlock()
	if !ok {
		return envelope.Manifest{}, nil, fmt.Errorf("%w: %s/v%d", ErrUnknownKind, k.kind, k.version)
	}
	return fn(c, data)
}
