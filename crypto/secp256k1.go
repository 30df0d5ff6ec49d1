/*
Package crypto implements the signature scheme used to gate token
minting. An issuer signs a digest offline, the ledger recovers the
signing key from the compact signature and compares it against the
registered issuer key. The ledger itself never holds a private key.
*/
package crypto

import (
	"bytes"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ghostchain/ghost/errors"
)

const (
	// PublicKeySize is the length of a compressed secp256k1 public key.
	PublicKeySize = 33

	// SignatureSize is the length of a compact ECDSA signature with a
	// recovery code.
	SignatureSize = 65
)

// PublicKey is a compressed 33-byte secp256k1 public key.
type PublicKey []byte

// Validate returns an error unless this is a well formed compressed key.
func (p PublicKey) Validate() error {
	if len(p) != PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes, got %d", PublicKeySize, len(p))
	}
	if _, err := secp256k1.ParsePubKey(p); err != nil {
		return errors.Wrapf(errors.ErrInput, "malformed public key: %s", err)
	}
	return nil
}

// Equals checks if two public keys are the same.
func (p PublicKey) Equals(o PublicKey) bool {
	return bytes.Equal(p, o)
}

// IsZero returns true when no key material is present.
func (p PublicKey) IsZero() bool {
	return len(p) == 0
}

// Signature is a 65-byte compact ECDSA signature that allows public
// key recovery.
type Signature []byte

// Validate returns an error unless the signature has the compact form
// length. Whether it verifies anything is a separate question.
func (s Signature) Validate() error {
	if len(s) != SignatureSize {
		return errors.Wrapf(errors.ErrInput, "signature must be %d bytes, got %d", SignatureSize, len(s))
	}
	return nil
}

// RecoverSigner returns the public key that produced the given compact
// signature over the digest. A mangled signature that recovers to any
// valid key is not an error here, callers must compare the result
// against the key they expect.
func RecoverSigner(digest []byte, sig Signature) (PublicKey, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	pub, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSignature, "cannot recover key: %s", err)
	}
	return pub.SerializeCompressed(), nil
}

// Sign produces a compact, recoverable signature over the digest. Used
// by issuers and by tests, never by the ledger state machine itself.
func Sign(key *secp256k1.PrivateKey, digest []byte) Signature {
	return ecdsa.SignCompact(key, digest, true)
}

// GenerateKey creates a new random secp256k1 private key along with
// its compressed public key.
func GenerateKey() (*secp256k1.PrivateKey, PublicKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrState, "generate key: %s", err)
	}
	return key, key.PubKey().SerializeCompressed(), nil
}
