// Package interfaces defines the shared types and contracts of the key
// export system without including implementation details.
//
// Separating the interface definitions from their implementations allows
// for multiple implementations of the same contract, better testability
// through mocks, and reduced coupling between components.
//
// # Key Store
//
//   - KeyStore: the collaborator that owns key handles and raw key
//     material. It can export the platform-native raw representation of
//     a public key, import PEM-encoded keys under a tag, look keys up,
//     and delete them.
//
// # Storage
//
//   - StorageBackend: any system that can store and retrieve
//     content-addressed key artifacts (exported PEM text).
//
// # Type Definitions
//
//   - KeyTag: identifier under which a key lives in a key store
//   - RawPublicKey: opaque modulus and exponent blob, not yet ASN.1 framed
//   - PublicKeyPEM/PrivateKeyPEM: validated PEM artifacts
//   - KeyInfo: key metadata returned by lookups
//   - ContentID: 32-byte SHA-256 hash identifying archived content
//   - ArtifactType: storage namespace (public or private key artifacts)
//
// # Error Types
//
//   - ErrKeyNotFound: no key material under the requested tag
//   - ErrKeyExists: tag already occupied on create or import
//   - ErrContentNotFound: content not found in the storage system
//   - ErrBackendUnavailable: storage backend is not accessible
//   - ErrInvalidLocationURI: storage location URI is malformed
package interfaces
