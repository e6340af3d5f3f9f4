/*
Package httpserver wires the key export API into a runnable HTTP server.

It mounts the routes of any RouteRegistrar (typically the exporthandler
package) behind request logging middleware and adds the operational
surface every deployment needs: liveness and readiness probes, drain
control for rolling restarts, optional pprof, and a Prometheus metrics
server on a separate listener.

Operational endpoints:

  - GET /livez - Liveness check
  - GET /readyz - Readiness check
  - GET /drain - Gracefully mark server as not ready
  - GET /undrain - Mark server as ready
  - /debug/* - pprof profiler (when enabled)

Example usage:

	store := keystore.NewSoftKeyStore()
	exporter := keystore.NewExporter(store, logger)
	handler := exporthandler.NewHandler(store, exporter, archive, logger)

	config := &httpserver.HTTPServerConfig{
		ListenAddr:               ":8080",
		MetricsAddr:              ":9090",
		EnablePprof:              false,
		Log:                      logger,
		DrainDuration:            30 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              5 * time.Second,
		WriteTimeout:             10 * time.Second,
	}

	server, err := httpserver.New(config, handler)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	server.RunInBackground()
	defer server.Shutdown()
*/
package httpserver
