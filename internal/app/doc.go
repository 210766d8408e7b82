// Package app wires the WhatsFlow service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Resolve paths and create the data, export and log directories
//	2. Initialize OpenTelemetry and the business metrics
//	3. Open, migrate and seed the SQLite store
//	4. Build the services and the demo WebSocket hub
//	5. Mount middleware and handlers on the chi router
//
// # Usage
//
//	application, err := app.New(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// Run returns once ctx is cancelled and shutdown has finished. Shutdown
// closes demo streams, drains in-flight requests, flushes telemetry and
// closes the database. Errors are returned to the caller; the package
// never calls os.Exit.
package app
