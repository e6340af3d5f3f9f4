package keystore

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/ulvesked/rsahelper/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSoftKeyStore_GenerateAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewSoftKeyStore()

	info, err := store.Generate(ctx, "test-key", 1024)
	require.NoError(t, err)
	assert.Equal(t, interfaces.KeyTag("test-key"), info.Tag)
	assert.Equal(t, 1024, info.Bits)
	assert.True(t, info.HasPrivate)
	assert.Len(t, info.Fingerprint, 64)

	looked, err := store.Lookup(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, info, looked)

	// Duplicate tags are rejected.
	_, err = store.Generate(ctx, "test-key", 1024)
	assert.ErrorIs(t, err, interfaces.ErrKeyExists)

	// Undersized keys are rejected.
	_, err = store.Generate(ctx, "small-key", 512)
	assert.Error(t, err)
}

func TestSoftKeyStore_ExportRawPublicKey(t *testing.T) {
	ctx := context.Background()
	store := NewSoftKeyStore()

	_, err := store.Generate(ctx, "test-key", 1024)
	require.NoError(t, err)

	rawKey, err := store.ExportRawPublicKey(ctx, "test-key")
	require.NoError(t, err)

	// The raw blob is the PKCS#1 RSAPublicKey body.
	pub, err := x509.ParsePKCS1PublicKey(rawKey)
	require.NoError(t, err)
	assert.Equal(t, 1024, pub.N.BitLen())

	_, err = store.ExportRawPublicKey(ctx, "absent")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestSoftKeyStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewSoftKeyStore()

	_, err := store.Generate(ctx, "test-key", 1024)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "test-key"))
	_, err = store.Lookup(ctx, "test-key")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "test-key"), interfaces.ErrKeyNotFound)
}

func TestExporter_ExportPublicKeyPEM(t *testing.T) {
	ctx := context.Background()
	store := NewSoftKeyStore()
	exporter := NewExporter(store, testLogger())

	_, err := store.Generate(ctx, "test-key", 2048)
	require.NoError(t, err)

	pubPEM, err := exporter.ExportPublicKeyPEM(ctx, "test-key")
	require.NoError(t, err)
	require.NoError(t, pubPEM.Validate())

	assert.True(t, strings.HasPrefix(string(pubPEM), "-----BEGIN PUBLIC KEY-----\r\n"))
	assert.True(t, strings.HasSuffix(string(pubPEM), "-----END PUBLIC KEY-----"))

	// The DER payload must parse as a standard SubjectPublicKeyInfo.
	block, _ := pem.Decode(pubPEM)
	require.NotNil(t, block)
	_, err = x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
}

func TestExporter_RoundTripThroughImport(t *testing.T) {
	ctx := context.Background()
	store := NewSoftKeyStore()
	exporter := NewExporter(store, testLogger())

	_, err := store.Generate(ctx, "origin", 1024)
	require.NoError(t, err)

	pubPEM, err := exporter.ExportPublicKeyPEM(ctx, "origin")
	require.NoError(t, err)

	// A key imported from exported PEM must expose identical raw bytes.
	require.NoError(t, store.ImportPublicKey(ctx, "copy", pubPEM))

	origRaw, err := store.ExportRawPublicKey(ctx, "origin")
	require.NoError(t, err)
	copyRaw, err := store.ExportRawPublicKey(ctx, "copy")
	require.NoError(t, err)
	assert.Equal(t, origRaw, copyRaw)

	copyInfo, err := store.Lookup(ctx, "copy")
	require.NoError(t, err)
	assert.False(t, copyInfo.HasPrivate)
}

func TestExporter_AbsentKeyProducesNoOutput(t *testing.T) {
	ctx := context.Background()
	exporter := NewExporter(NewSoftKeyStore(), testLogger())

	pubPEM, err := exporter.ExportPublicKeyPEM(ctx, "absent")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
	assert.Nil(t, pubPEM)

	der, err := exporter.ExportPublicKeyDER(ctx, "absent")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
	assert.Nil(t, der)
}

func TestExporter_ExportAuthorizedKey(t *testing.T) {
	ctx := context.Background()
	store := NewSoftKeyStore()
	exporter := NewExporter(store, testLogger())

	_, err := store.Generate(ctx, "ssh-key", 1024)
	require.NoError(t, err)

	line, err := exporter.ExportAuthorizedKey(ctx, "ssh-key")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "ssh-rsa "))
	assert.True(t, strings.HasSuffix(line, " ssh-key"))

	parsed, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, "ssh-rsa", parsed.Type())
	assert.Equal(t, "ssh-key", comment)
}

func TestExporter_ExportPrivateKeyPEM(t *testing.T) {
	ctx := context.Background()
	store := NewSoftKeyStore()
	exporter := NewExporter(store, testLogger())

	_, err := store.Generate(ctx, "test-key", 1024)
	require.NoError(t, err)

	privPEM, err := exporter.ExportPrivateKeyPEM(ctx, "test-key")
	require.NoError(t, err)
	require.NoError(t, privPEM.Validate())

	key, err := privPEM.GetRSAPrivateKey()
	require.NoError(t, err)
	assert.Equal(t, 1024, key.N.BitLen())

	// Imported public-only keys hold no private material.
	pubPEM, err := exporter.ExportPublicKeyPEM(ctx, "test-key")
	require.NoError(t, err)
	require.NoError(t, store.ImportPublicKey(ctx, "pub-only", pubPEM))
	_, err = exporter.ExportPrivateKeyPEM(ctx, "pub-only")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}
