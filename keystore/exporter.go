package keystore

import (
	"context"
	"crypto/x509"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/ulvesked/rsahelper/derutils"
	"github.com/ulvesked/rsahelper/interfaces"
)

// PrivateKeyExporter is implemented by key stores that can release
// private key material in PEM form. Hardware-backed stores typically
// cannot and simply do not implement it.
type PrivateKeyExporter interface {
	ExportPrivateKeyPEM(ctx context.Context, tag interfaces.KeyTag) (interfaces.PrivateKeyPEM, error)
}

// Exporter is the export boundary of the system. It obtains raw key
// bytes from a KeyStore collaborator and runs them through the
// derutils encoding pipeline. If the raw key material is unavailable
// the encoders are never invoked and the key store's error (typically
// interfaces.ErrKeyNotFound) propagates unchanged.
type Exporter struct {
	store interfaces.KeyStore
	log   *slog.Logger
}

// NewExporter creates an exporter backed by the given key store.
func NewExporter(store interfaces.KeyStore, log *slog.Logger) *Exporter {
	return &Exporter{
		store: store,
		log:   log,
	}
}

// ExportPublicKeyDER exports the key under tag as a self-describing
// DER SubjectPublicKeyInfo structure.
func (e *Exporter) ExportPublicKeyDER(ctx context.Context, tag interfaces.KeyTag) ([]byte, error) {
	rawKey, err := e.store.ExportRawPublicKey(ctx, tag)
	if err != nil {
		return nil, err
	}

	der := derutils.WrapPublicKey(rawKey)
	e.log.Debug("Wrapped raw public key",
		slog.String("tag", tag.String()),
		slog.Int("raw_size", len(rawKey)),
		slog.Int("der_size", len(der)))
	return der, nil
}

// ExportPublicKeyPEM exports the key under tag as PEM text bracketed
// by the standard PUBLIC KEY delimiters.
func (e *Exporter) ExportPublicKeyPEM(ctx context.Context, tag interfaces.KeyTag) (interfaces.PublicKeyPEM, error) {
	der, err := e.ExportPublicKeyDER(ctx, tag)
	if err != nil {
		return nil, err
	}

	pemText := derutils.EncodeToPEM(der, derutils.PublicKeyPEMHeader, derutils.PublicKeyPEMFooter)
	return interfaces.PublicKeyPEM(pemText), nil
}

// ExportAuthorizedKey exports the key under tag as a single OpenSSH
// authorized_keys line, tagged with the key's own tag as the comment.
func (e *Exporter) ExportAuthorizedKey(ctx context.Context, tag interfaces.KeyTag) (string, error) {
	rawKey, err := e.store.ExportRawPublicKey(ctx, tag)
	if err != nil {
		return "", err
	}

	rsaKey, err := x509.ParsePKCS1PublicKey(rawKey)
	if err != nil {
		return "", fmt.Errorf("unexpected raw key format from key store: %w", err)
	}

	sshKey, err := ssh.NewPublicKey(rsaKey)
	if err != nil {
		return "", fmt.Errorf("failed to convert to SSH public key: %w", err)
	}

	line := strings.TrimSuffix(string(ssh.MarshalAuthorizedKey(sshKey)), "\n")
	return fmt.Sprintf("%s %s", line, tag), nil
}

// ExportPrivateKeyPEM exports private key material if the underlying
// store supports it.
func (e *Exporter) ExportPrivateKeyPEM(ctx context.Context, tag interfaces.KeyTag) (interfaces.PrivateKeyPEM, error) {
	privStore, ok := e.store.(PrivateKeyExporter)
	if !ok {
		return nil, fmt.Errorf("key store %T cannot export private key material", e.store)
	}
	return privStore.ExportPrivateKeyPEM(ctx, tag)
}
