package derutils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerByteLen(t *testing.T) {
	testCases := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "zero", input: 0, expected: 0},
		{name: "negative", input: -5, expected: 0},
		{name: "one", input: 1, expected: 1},
		{name: "single byte max", input: 255, expected: 1},
		{name: "two byte min", input: 256, expected: 2},
		{name: "two byte max", input: 65535, expected: 2},
		{name: "three byte min", input: 65536, expected: 3},
		{name: "seven byte max", input: 1<<56 - 1, expected: 7},
		{name: "eight byte min", input: 1 << 56, expected: 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IntegerByteLen(tc.input))
		})
	}
}

func TestEncodeLength_ShortForm(t *testing.T) {
	// Every length below 128 is a single byte equal to the length itself.
	for length := 0; length < 128; length++ {
		var buf [1]byte
		n := EncodeLength(buf[:], length)
		require.Equal(t, 1, n, "length %d", length)
		require.Equal(t, byte(length), buf[0], "length %d", length)
	}
}

func TestEncodeLength_LongForm(t *testing.T) {
	testCases := []struct {
		name     string
		length   int
		expected []byte
	}{
		{name: "128", length: 128, expected: []byte{0x81, 0x80}},
		{name: "255", length: 255, expected: []byte{0x81, 0xFF}},
		{name: "256", length: 256, expected: []byte{0x82, 0x01, 0x00}},
		{name: "65535", length: 65535, expected: []byte{0x82, 0xFF, 0xFF}},
		{name: "65536", length: 65536, expected: []byte{0x83, 0x01, 0x00, 0x00}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf [maxTLVHeaderLen]byte
			n := EncodeLength(buf[:], tc.length)
			assert.Equal(t, len(tc.expected), n)
			assert.Equal(t, tc.expected, buf[:n])
		})
	}
}

func TestEncodeLength_BufferTooSmall(t *testing.T) {
	// Writing past the slice end is a caller bug and must not corrupt
	// adjacent memory; the bounds check panics instead.
	assert.Panics(t, func() {
		var buf [1]byte
		EncodeLength(buf[:], 300)
	})
}

// subjectPublicKeyInfo mirrors the structure WrapPublicKey emits, used
// to reparse the output independently via encoding/asn1.
type subjectPublicKeyInfo struct {
	Algorithm asn1.RawValue
	PublicKey asn1.BitString
}

func TestWrapPublicKey_Reparse(t *testing.T) {
	testCases := []struct {
		name   string
		rawLen int
	}{
		{name: "short form lengths", rawLen: 40},
		{name: "one byte long form", rawLen: 200},
		{name: "2048-bit modulus and exponent", rawLen: 270},
		{name: "two byte long form", rawLen: 1000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rawKey := make([]byte, tc.rawLen)
			for i := range rawKey {
				rawKey[i] = byte(i % 251)
			}

			der := WrapPublicKey(rawKey)
			require.Equal(t, TagSequence, der[0])

			var spki subjectPublicKeyInfo
			rest, err := asn1.Unmarshal(der, &spki)
			require.NoError(t, err)
			assert.Empty(t, rest, "exactly one top-level SEQUENCE")

			assert.Equal(t, rsaAlgorithmIdentifier[:], spki.Algorithm.FullBytes)
			assert.Equal(t, rawKey, spki.PublicKey.Bytes)
			assert.Equal(t, tc.rawLen*8, spki.PublicKey.BitLength, "zero unused bits")
		})
	}
}

func TestWrapPublicKey_MatchesPKIXMarshal(t *testing.T) {
	// Wrapping the PKCS#1 body of a real key must produce the exact
	// SubjectPublicKeyInfo encoding the x509 package would.
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	rawKey := x509.MarshalPKCS1PublicKey(&key.PublicKey)
	expected, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	assert.Equal(t, expected, WrapPublicKey(rawKey))
}

func TestWrapPublicKey_EmptyInput(t *testing.T) {
	// Empty raw bytes still produce syntactically valid DER; semantic
	// validation is not this layer's job.
	der := WrapPublicKey(nil)

	var spki subjectPublicKeyInfo
	rest, err := asn1.Unmarshal(der, &spki)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, 0, spki.PublicKey.BitLength)
}

func TestEncodeToPEM_RoundTrip(t *testing.T) {
	der := WrapPublicKey(make([]byte, 270))
	pemText := EncodeToPEM(der, PublicKeyPEMHeader, PublicKeyPEMFooter)

	body := strings.TrimPrefix(pemText, PublicKeyPEMHeader)
	body = strings.TrimSuffix(body, PublicKeyPEMFooter)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body, "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, der, decoded)
}

func TestEncodeToPEM_LineWrapping(t *testing.T) {
	testCases := []struct {
		name          string
		derLen        int
		lastLineLen   int
		expectedLines int
	}{
		// 48 DER bytes encode to exactly one 64-character base64 line.
		{name: "exact multiple has no short line", derLen: 48, lastLineLen: 64, expectedLines: 1},
		{name: "one byte over wraps to a short line", derLen: 49, lastLineLen: 4, expectedLines: 2},
		{name: "two full lines", derLen: 96, lastLineLen: 64, expectedLines: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			der := make([]byte, tc.derLen)
			pemText := EncodeToPEM(der, PublicKeyPEMHeader, PublicKeyPEMFooter)

			body := strings.TrimPrefix(pemText, PublicKeyPEMHeader)
			body = strings.TrimSuffix(body, PublicKeyPEMFooter)
			require.True(t, strings.HasSuffix(body, "\r\n"))

			lines := strings.Split(strings.TrimSuffix(body, "\r\n"), "\r\n")
			require.Len(t, lines, tc.expectedLines)
			for _, line := range lines[:len(lines)-1] {
				assert.Len(t, line, PEMLineLength)
			}
			assert.Len(t, lines[len(lines)-1], tc.lastLineLen)
		})
	}
}

func TestEncodeToPEM_EmptyDER(t *testing.T) {
	pemText := EncodeToPEM(nil, PublicKeyPEMHeader, PublicKeyPEMFooter)
	assert.Equal(t, PublicKeyPEMHeader+PublicKeyPEMFooter, pemText)
}

func TestExportScenario(t *testing.T) {
	rawKey := make([]byte, 270)
	for i := range rawKey {
		rawKey[i] = byte(i)
	}

	der := WrapPublicKey(rawKey)

	// SEQUENCE tag + 3-byte length field, 15-byte algorithm identifier,
	// BIT STRING tag + 3-byte length field + unused-bits byte, raw key.
	assert.Equal(t, 1+3+15+1+3+1+270, len(der))
	assert.Equal(t, TagSequence, der[0])

	pemText := EncodeToPEM(der, PublicKeyPEMHeader, PublicKeyPEMFooter)
	assert.True(t, strings.HasPrefix(pemText, "-----BEGIN PUBLIC KEY-----\r\n"))
	assert.True(t, strings.HasSuffix(pemText, "-----END PUBLIC KEY-----"))
}
