// Package envelope defines the intermodal data-enveloping convention: a
// standard metadata block (the Manifest) paired with an arbitrary payload.
//
// Producers wrap their payloads in an Envelope so that generic consumers
// (routers, dispatchers, storage writers) can decode just the Header, read
// the manifest, and select a concrete payload type before decoding the
// same blob a second time into a typed Envelope. The package carries no
// I/O and no codec of its own; encoding and decoding are delegated to a
// structured codec such as the ones in xdao.co/intermodal/codec.
package envelope
