// The rsahelper command is an offline companion to the export server.
// It wraps raw RSA public key blobs into standard PEM documents and
// inspects existing PEM files without talking to a server.
package main

import (
	"crypto/x509"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ulvesked/rsahelper/cmd/flags"
	"github.com/ulvesked/rsahelper/derutils"
	"github.com/ulvesked/rsahelper/interfaces"
)

func main() {
	app := &cli.App{
		Name:  "rsahelper",
		Usage: "Wrap and inspect RSA public keys offline",
		Flags: []cli.Flag{
			flags.LogJsonFlag,
			flags.LogDebugFlag,
			flags.LogUidFlag,
			flags.LogServiceFlag,
		},
		Commands: []*cli.Command{
			{
				Name:      "wrap",
				Usage:     "Wrap a raw RSA public key blob (PKCS#1 body) into PEM, written to stdout",
				ArgsUsage: "<raw-key-file>",
				Action:    runWrap,
			},
			{
				Name:      "inspect",
				Usage:     "Print metadata for a PEM public key file",
				ArgsUsage: "<pem-file>",
				Action:    runInspect,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runWrap(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	if cCtx.NArg() != 1 {
		return fmt.Errorf("expected exactly one raw key file argument")
	}

	rawKey, err := os.ReadFile(cCtx.Args().First())
	if err != nil {
		logger.Error("Failed to read raw key file", "err", err)
		return err
	}

	der := derutils.WrapPublicKey(rawKey)
	pemText := derutils.EncodeToPEM(der, derutils.PublicKeyPEMHeader, derutils.PublicKeyPEMFooter)

	// The wrap is structural; confirm the result parses before emitting it.
	if _, err := interfaces.NewPublicKeyPEM([]byte(pemText)); err != nil {
		logger.Error("Raw key blob does not wrap into a valid public key", "err", err)
		return err
	}

	fmt.Print(pemText)
	return nil
}

func runInspect(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	if cCtx.NArg() != 1 {
		return fmt.Errorf("expected exactly one PEM file argument")
	}

	data, err := os.ReadFile(cCtx.Args().First())
	if err != nil {
		logger.Error("Failed to read PEM file", "err", err)
		return err
	}

	pubPEM, err := interfaces.NewPublicKeyPEM(data)
	if err != nil {
		logger.Error("Invalid public key PEM", "err", err)
		return err
	}

	pub, err := pubPEM.GetRSAPublicKey()
	if err != nil {
		return err
	}

	// Fingerprint over the raw modulus and exponent blob, matching the
	// key store's KeyInfo.
	raw := x509.MarshalPKCS1PublicKey(pub)

	fmt.Printf("type: RSA public key\n")
	fmt.Printf("bits: %d\n", pub.N.BitLen())
	fmt.Printf("exponent: %d\n", pub.E)
	fmt.Printf("fingerprint: %s\n", interfaces.ComputeID(raw).String())
	return nil
}
