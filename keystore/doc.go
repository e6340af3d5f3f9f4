// Package keystore implements the key material side of the export
// pipeline: a software key store holding RSA key pairs and the
// Exporter that turns stored keys into interoperable DER and PEM
// artifacts via package derutils.
//
// SoftKeyStore keeps keys in memory behind a read-write mutex and
// serves the interfaces.KeyStore contract: raw public key export,
// PEM import, lookup and delete. Its raw representation is the
// PKCS#1 RSAPublicKey body, the same blob platform key stores return
// for RSA keys.
//
// Exporter is the boundary described by the export contract: when the
// key store reports that no key material exists under a tag, no DER or
// PEM is produced and the error propagates; the encoding layer is
// never reached with absent input.
package keystore
