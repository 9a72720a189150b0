// Package app wires the configured components into a single build run.
//
// # Initialization Flow
//
//	1. Resolve paths and reset the work directory
//	2. Initialize telemetry (tracing per config, metrics always)
//	3. Create the CDN client, probes, patcher and exporters
//	4. Register the run steps in order
//
// # Usage
//
//	application, err := app.NewApplication(cfg, app.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer application.Close(context.Background())
//	result, err := application.Run(ctx)
//
// # Error Handling
//
// Initialization and run errors are returned to the caller. The package
// never calls os.Exit, leaving exit codes to the main function.
package app
