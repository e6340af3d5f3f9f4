// Package exporthandler implements the HTTP API for the RSA key export
// service. It exposes key lifecycle operations (generate, import,
// lookup, delete), PEM and OpenSSH export endpoints, and an optional
// content-addressed artifact archive.
//
// # API Endpoints
//
//	POST   /api/keys/{key_tag}/generate       Create a new RSA key pair
//	GET    /api/keys/{key_tag}/public.pem     Export the public key as PEM
//	GET    /api/keys/{key_tag}/authorized_key Export as OpenSSH line
//	PUT    /api/keys/{key_tag}                Import a PEM public key
//	GET    /api/keys/{key_tag}                Key metadata
//	DELETE /api/keys/{key_tag}                Delete the key
//	POST   /api/artifacts/{key_tag}           Export and archive
//	GET    /api/artifacts/{content_id}        Fetch an archived artifact
//
// # Usage Example
//
//	store := keystore.NewSoftKeyStore()
//	exporter := keystore.NewExporter(store, logger)
//	handler := exporthandler.NewHandler(store, exporter, archive, logger)
//	router := chi.NewRouter()
//	handler.RegisterRoutes(router)
//
// Key stores are consumed through the interfaces.KeyStore contract;
// stores that additionally implement KeyGenerator gain the generate
// endpoint, all others answer it with 501.
package exporthandler
