// Package derutils converts raw RSA public key material (the minimal
// modulus and exponent blob a platform key store exports) into a
// self-describing DER structure and further into PEM text suitable for
// exchange with external tooling such as OpenSSL.
//
// The package performs manual binary-format encoding that must be
// bit-exact for interoperability:
//
//   - ASN.1 tag/length/value framing with definite-length encoding
//     (short and long form)
//   - the verbatim 15-byte rsaEncryption AlgorithmIdentifier
//   - BIT STRING wrapping with the mandatory unused-bits byte
//   - base64 PEM bodies hard-wrapped at 64 columns with CRLF line ends
//
// Data flows strictly forward: raw key bytes -> DER buffer -> PEM text.
// All functions are pure, synchronous transformations on caller-owned
// buffers; concurrent calls with disjoint inputs are safe.
//
// Decoding DER back into structured key fields is out of scope, as is
// any interaction with key stores; see package keystore for the export
// boundary that feeds this package.
//
// # Usage Example
//
//	raw, err := store.ExportRawPublicKey(ctx, tag)
//	if err != nil {
//	    return err // no DER/PEM is produced without key material
//	}
//	der := derutils.WrapPublicKey(raw)
//	pemText := derutils.EncodeToPEM(der, derutils.PublicKeyPEMHeader, derutils.PublicKeyPEMFooter)
package derutils
