// Package api defines the JSON request and response shapes of the key
// export HTTP API.
package api

import "github.com/ulvesked/rsahelper/interfaces"

// GenerateRequest asks the key store to create a new RSA key pair.
type GenerateRequest struct {
	// Bits is the RSA modulus size; defaults to 2048 when omitted.
	Bits int `json:"bits,omitempty"`
}

// KeyResponse describes a stored key.
type KeyResponse struct {
	interfaces.KeyInfo
}

// ArchiveRequest selects which artifact of a key to archive.
type ArchiveRequest struct {
	// Type is "public" (default) or "private".
	Type string `json:"type,omitempty"`
}

// ArchiveResponse reports where an exported artifact was archived.
type ArchiveResponse struct {
	ContentID string `json:"content_id"`
	Location  string `json:"location"`
}

// ErrorResponse carries a machine-readable error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
