package keystore

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/ulvesked/rsahelper/derutils"
	"github.com/ulvesked/rsahelper/interfaces"
)

// MinKeyBits is the smallest RSA key size the soft store will generate.
const MinKeyBits = 1024

// SoftKeyStore is an in-memory software key store. It generates and
// holds RSA key pairs and hands out their platform-native raw
// representation (the PKCS#1 RSAPublicKey body), playing the role an
// OS keychain plays in production deployments.
type SoftKeyStore struct {
	mu   sync.RWMutex
	keys map[interfaces.KeyTag]*storedKey
}

type storedKey struct {
	public  *rsa.PublicKey
	private *rsa.PrivateKey // nil for imported public-only keys
}

// NewSoftKeyStore creates an empty software key store.
func NewSoftKeyStore() *SoftKeyStore {
	return &SoftKeyStore{
		keys: make(map[interfaces.KeyTag]*storedKey),
	}
}

// Generate creates a new RSA key pair under the tag and returns its
// metadata. Returns interfaces.ErrKeyExists if the tag is occupied.
func (s *SoftKeyStore) Generate(ctx context.Context, tag interfaces.KeyTag, bits int) (interfaces.KeyInfo, error) {
	if bits < MinKeyBits {
		return interfaces.KeyInfo{}, fmt.Errorf("key size %d below minimum of %d bits", bits, MinKeyBits)
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return interfaces.KeyInfo{}, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[tag]; ok {
		return interfaces.KeyInfo{}, fmt.Errorf("%w: %s", interfaces.ErrKeyExists, tag)
	}
	s.keys[tag] = &storedKey{public: &key.PublicKey, private: key}

	return keyInfoFor(tag, s.keys[tag]), nil
}

// ExportRawPublicKey returns the raw modulus and exponent blob for the
// public key under tag, or interfaces.ErrKeyNotFound.
func (s *SoftKeyStore) ExportRawPublicKey(ctx context.Context, tag interfaces.KeyTag) (interfaces.RawPublicKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.keys[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrKeyNotFound, tag)
	}
	return interfaces.RawPublicKey(x509.MarshalPKCS1PublicKey(entry.public)), nil
}

// ImportPublicKey stores a PEM-encoded public key under the tag.
func (s *SoftKeyStore) ImportPublicKey(ctx context.Context, tag interfaces.KeyTag, pub interfaces.PublicKeyPEM) error {
	parsed, err := pub.GetRSAPublicKey()
	if err != nil {
		return fmt.Errorf("failed to parse public key for import: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[tag]; ok {
		return fmt.Errorf("%w: %s", interfaces.ErrKeyExists, tag)
	}
	s.keys[tag] = &storedKey{public: parsed}
	return nil
}

// Lookup returns metadata for the key under tag.
func (s *SoftKeyStore) Lookup(ctx context.Context, tag interfaces.KeyTag) (interfaces.KeyInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.keys[tag]
	if !ok {
		return interfaces.KeyInfo{}, fmt.Errorf("%w: %s", interfaces.ErrKeyNotFound, tag)
	}
	return keyInfoFor(tag, entry), nil
}

// Delete removes the key under tag.
func (s *SoftKeyStore) Delete(ctx context.Context, tag interfaces.KeyTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[tag]; !ok {
		return fmt.Errorf("%w: %s", interfaces.ErrKeyNotFound, tag)
	}
	delete(s.keys, tag)
	return nil
}

// ExportPrivateKeyPEM returns the PKCS#1 private key under tag in PEM
// format. Public-only entries return interfaces.ErrKeyNotFound since
// they hold no private key material.
func (s *SoftKeyStore) ExportPrivateKeyPEM(ctx context.Context, tag interfaces.KeyTag) (interfaces.PrivateKeyPEM, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.keys[tag]
	if !ok || entry.private == nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrKeyNotFound, tag)
	}

	der := x509.MarshalPKCS1PrivateKey(entry.private)
	pemText := derutils.EncodeToPEM(der, derutils.RSAPrivateKeyPEMHeader, derutils.RSAPrivateKeyPEMFooter)
	return interfaces.PrivateKeyPEM(pemText), nil
}

func keyInfoFor(tag interfaces.KeyTag, entry *storedKey) interfaces.KeyInfo {
	raw := x509.MarshalPKCS1PublicKey(entry.public)
	fingerprint := sha256.Sum256(raw)
	return interfaces.KeyInfo{
		Tag:         tag,
		Bits:        entry.public.N.BitLen(),
		Fingerprint: hex.EncodeToString(fingerprint[:]),
		HasPrivate:  entry.private != nil,
	}
}
