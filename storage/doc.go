// Package storage provides a content-addressed archive for exported
// key artifacts with pluggable backends.
//
// Exported PEM text is stored and retrieved by its SHA-256 hash across
// multiple storage backends:
//
//   - File system storage for local development and testing
//   - S3-compatible storage for cloud deployments
//   - IPFS storage for decentralized distribution of public keys
//   - HashiCorp Vault for private key artifacts
//
// # Storage URI Format
//
// Storage backends are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//	file:///var/lib/rsahelper/artifacts/
//	s3://bucket-name/prefix/?region=us-west-2
//	ipfs://ipfs.example.com:5001/
//	vault://vault.example.com:8200/secret/rsahelper?token=...
//
// # Content Addressing
//
// An artifact's identifier is the SHA-256 hash of its bytes. Public and
// private key artifacts live in separate namespaces
// (interfaces.ArtifactType), so a public key PEM and a private key PEM
// can never shadow one another.
//
// # Redundancy
//
// MultiStorageBackend aggregates several backends: Store fans out to
// every available backend, Fetch returns the first hit and falls back
// through the rest. StorageBackendFactory builds single or multi
// backends from location URIs.
package storage
