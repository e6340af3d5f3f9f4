package interfaces

import (
	"bytes"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// KeyTag identifies a key inside a key store. Tags are short,
// URL-safe strings chosen by the caller when the key is created or
// imported, similar to keychain application tags.
type KeyTag string

var keyTagPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// NewKeyTag creates a key tag from a string with validation.
func NewKeyTag(s string) (KeyTag, error) {
	if !keyTagPattern.MatchString(s) {
		return "", fmt.Errorf("invalid key tag %q: must be 1-128 characters of [a-zA-Z0-9._-] and start alphanumeric", s)
	}
	return KeyTag(s), nil
}

// String returns the tag as a plain string.
func (t KeyTag) String() string {
	return string(t)
}

// RawPublicKey is the minimal modulus and exponent blob a key store
// returns for an RSA public key (the PKCS#1 RSAPublicKey body), not
// yet wrapped in a self-describing SubjectPublicKeyInfo structure.
// It is treated as opaque and never mutated.
type RawPublicKey []byte

// PublicKeyPEM represents an RSA public key in PEM format.
type PublicKeyPEM []byte

// NewPublicKeyPEM creates a public key object from PEM-encoded data with validation.
func NewPublicKeyPEM(data []byte) (PublicKeyPEM, error) {
	block, _ := pem.Decode(data)
	if block == nil || (block.Type != "PUBLIC KEY" && block.Type != "RSA PUBLIC KEY") {
		return PublicKeyPEM{}, errors.New("invalid public key: not in PEM format or not a public key")
	}

	if _, err := parseRSAPublicKeyBlock(block); err != nil {
		return PublicKeyPEM{}, fmt.Errorf("invalid public key structure: %w", err)
	}

	return PublicKeyPEM(data), nil
}

// Validate checks if the public key is properly formed.
func (pub PublicKeyPEM) Validate() error {
	_, err := NewPublicKeyPEM(pub)
	return err
}

// GetRSAPublicKey returns the parsed RSA public key.
func (pub PublicKeyPEM) GetRSAPublicKey() (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pub)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	return parseRSAPublicKeyBlock(block)
}

func parseRSAPublicKeyBlock(block *pem.Block) (*rsa.PublicKey, error) {
	if block.Type == "RSA PUBLIC KEY" {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unsupported public key type: %T", parsed)
	}
	return rsaKey, nil
}

// PrivateKeyPEM represents an RSA private key in PEM format.
type PrivateKeyPEM []byte

// NewPrivateKeyPEM creates a private key object from PEM-encoded data with validation.
func NewPrivateKeyPEM(data []byte) (PrivateKeyPEM, error) {
	block, _ := pem.Decode(data)
	if block == nil || (block.Type != "PRIVATE KEY" && block.Type != "RSA PRIVATE KEY") {
		return PrivateKeyPEM{}, errors.New("invalid private key: not in PEM format or not a private key")
	}

	// Try PKCS#1 first, then PKCS#8
	if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err != nil {
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return PrivateKeyPEM{}, fmt.Errorf("invalid private key structure: %w", err)
		}
		if _, ok := parsed.(*rsa.PrivateKey); !ok {
			return PrivateKeyPEM{}, fmt.Errorf("unsupported private key type: %T", parsed)
		}
	}

	return PrivateKeyPEM(data), nil
}

// Validate checks if the private key is properly formed.
func (priv PrivateKeyPEM) Validate() error {
	_, err := NewPrivateKeyPEM(priv)
	return err
}

// GetRSAPrivateKey returns the parsed RSA private key.
func (priv PrivateKeyPEM) GetRSAPrivateKey() (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(priv)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.New("failed to parse private key")
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported private key type: %T", parsed)
	}
	return rsaKey, nil
}

// KeyInfo describes a stored key as returned by KeyStore.Lookup.
type KeyInfo struct {
	Tag         KeyTag `json:"tag"`
	Bits        int    `json:"bits"`
	Fingerprint string `json:"fingerprint"` // hex SHA-256 of the raw public key
	HasPrivate  bool   `json:"has_private"`
}

// ContentID is a 32-byte SHA-256 hash uniquely identifying archived content.
type ContentID [32]byte

// NewContentIDFromHex parses a content ID from a 64-character hex string.
func NewContentIDFromHex(source string) (ContentID, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return ContentID{}, errors.New("invalid content ID length: hex string must be 64 characters")
	}

	hashBytes, err := hex.DecodeString(clean)
	if err != nil {
		return ContentID{}, fmt.Errorf("invalid hex format: %w", err)
	}

	var hash [32]byte
	copy(hash[:], hashBytes)
	return ContentID(hash), nil
}

// ComputeID calculates the content ID of data.
func ComputeID(data []byte) ContentID {
	hash := sha256.Sum256(data)
	return ContentID(hash)
}

// String returns hex representation.
func (id ContentID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw 32-byte hash.
func (id ContentID) Bytes() []byte {
	return id[:]
}

// Equal compares two content IDs.
func (id ContentID) Equal(other ContentID) bool {
	return bytes.Equal(id[:], other[:])
}

// ArtifactType indicates the storage namespace for an archived key artifact.
type ArtifactType int

const (
	// PublicKeyArtifact for exported public key PEM text
	PublicKeyArtifact ArtifactType = iota
	// PrivateKeyArtifact for private key PEM text
	PrivateKeyArtifact
)

// String returns the namespace name.
func (at ArtifactType) String() string {
	switch at {
	case PublicKeyArtifact:
		return "public"
	case PrivateKeyArtifact:
		return "private"
	default:
		return "unknown"
	}
}

// StorageBackendLocation represents a URI identifying a storage backend.
type StorageBackendLocation string
