// Package seal produces and checks detached signatures over encoded
// envelopes, giving consumers a way to verify a blob's origin claim.
//
// Seals cover the canonical bytes of the blob (see xdao.co/intermodal/addr),
// so re-encoding that only reorders keys or changes whitespace does not
// invalidate a seal. The payload is never inspected.
package seal

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"

	"xdao.co/intermodal/addr"
)

// ErrInvalidSeal reports a signature that does not verify against the
// blob and key supplied.
var ErrInvalidSeal = errors.New("seal does not verify")

func digestFor(hashAlg string, blob []byte) ([]byte, error) {
	canon, err := addr.Canonical(blob)
	if err != nil {
		return nil, err
	}
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(canon)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(canon)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(canon)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// Ed25519 returns a base64 ed25519 signature over sha256 of the blob's
// canonical bytes.
func Ed25519(blob []byte, privateKey ed25519.PrivateKey) (string, error) {
	digest, err := digestFor("sha256", blob)
	if err != nil {
		return "", err
	}
	sig := ed25519.Sign(privateKey, digest)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyEd25519 checks a base64 ed25519 seal against the blob's canonical
// bytes. A failed check returns ErrInvalidSeal.
func VerifyEd25519(blob []byte, sigB64 string, publicKey ed25519.PublicKey) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid ed25519 public key length: %d", len(publicKey))
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return fmt.Errorf("invalid seal base64: %w", err)
	}
	digest, err := digestFor("sha256", blob)
	if err != nil {
		return err
	}
	if !ed25519.Verify(publicKey, digest, sig) {
		return ErrInvalidSeal
	}
	return nil
}

// Dilithium3 returns a base64 dilithium3 signature over hash(canonical bytes).
// hashAlg must be one of: sha256, sha512, sha3-256.
func Dilithium3(blob []byte, hashAlg string, privateKey *mode3.PrivateKey) (string, error) {
	if privateKey == nil {
		return "", fmt.Errorf("missing private key")
	}
	digest, err := digestFor(hashAlg, blob)
	if err != nil {
		return "", err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(privateKey, digest, sig)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyDilithium3 checks a base64 dilithium3 seal. A failed check
// returns ErrInvalidSeal.
func VerifyDilithium3(blob []byte, hashAlg, sigB64 string, publicKey *mode3.PublicKey) error {
	if publicKey == nil {
		return fmt.Errorf("missing public key")
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return fmt.Errorf("invalid seal base64: %w", err)
	}
	digest, err := digestFor(hashAlg, blob)
	if err != nil {
		return err
	}
	if !mode3.Verify(publicKey, digest, sig) {
		return ErrInvalidSeal
	}
	return nil
}

// GenerateDilithium3Keypair returns a new Dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}
