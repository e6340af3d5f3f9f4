// The exportserver command runs the RSA key export HTTP service. It
// holds keys in an in-memory soft key store and optionally archives
// exported PEM artifacts to one or more storage backends.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ulvesked/rsahelper/api/exporthandler"
	"github.com/ulvesked/rsahelper/cmd/flags"
	"github.com/ulvesked/rsahelper/httpserver"
	"github.com/ulvesked/rsahelper/interfaces"
	"github.com/ulvesked/rsahelper/keystore"
	"github.com/ulvesked/rsahelper/storage"
)

func main() {
	app := &cli.App{
		Name:  "exportserver",
		Usage: "Serve the RSA key export API",
		Flags: append([]cli.Flag{
			flags.ListenAddrFlag,
			flags.StorageFlag,
		}, flags.CommonFlags...),
		Action: runServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)
	listenAddr := cCtx.String(flags.ListenAddrFlag.Name)
	storageURIs := cCtx.StringSlice(flags.StorageFlag.Name)

	store := keystore.NewSoftKeyStore()
	exporter := keystore.NewExporter(store, logger)

	var archive interfaces.StorageBackend
	if len(storageURIs) > 0 {
		locations := make([]interfaces.StorageBackendLocation, 0, len(storageURIs))
		for _, uri := range storageURIs {
			locations = append(locations, interfaces.StorageBackendLocation(uri))
		}

		factory := storage.NewStorageBackendFactory(logger)
		multiBackend, err := factory.CreateMultiBackend(locations)
		if err != nil {
			logger.Error("Failed to create artifact archive", "err", err)
			return err
		}
		archive = multiBackend
		logger.Info("Artifact archive configured", "backends", len(storageURIs))
	} else {
		logger.Info("No artifact archive configured, archive endpoints disabled")
	}

	handler := exporthandler.NewHandler(store, exporter, archive, logger)

	cfg := flags.ConfigureServer(cCtx, logger, listenAddr)
	server, err := httpserver.New(cfg, handler)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")

	return nil
}
