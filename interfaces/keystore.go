package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned when no key material exists under the
	// requested tag. Failure to obtain key bytes is an expected,
	// recoverable condition at the key store boundary, not a bug in the
	// encoding path, so callers receive this sentinel instead of a panic
	// or partial output.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists is returned when creating or importing a key under a
	// tag that is already occupied.
	ErrKeyExists = errors.New("key already exists")
)

// KeyStore is the key material collaborator. It owns key handles and
// their raw representations; the DER and PEM construction in package
// derutils never touches a key store directly and treats exported raw
// bytes as opaque.
type KeyStore interface {
	// ExportRawPublicKey returns the platform-native raw representation
	// of the public key under tag (modulus and exponent, PKCS#1 body).
	// Returns ErrKeyNotFound if no key material exists under the tag.
	ExportRawPublicKey(ctx context.Context, tag KeyTag) (RawPublicKey, error)

	// ImportPublicKey stores a PEM-encoded public key under the tag.
	// Returns ErrKeyExists if the tag is occupied.
	ImportPublicKey(ctx context.Context, tag KeyTag, pub PublicKeyPEM) error

	// Lookup returns metadata for the key under tag, or ErrKeyNotFound.
	Lookup(ctx context.Context, tag KeyTag) (KeyInfo, error)

	// Delete removes the key under tag. Deleting an absent tag returns
	// ErrKeyNotFound.
	Delete(ctx context.Context, tag KeyTag) error
}
