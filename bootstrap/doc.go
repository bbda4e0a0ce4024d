// Package bootstrap runs command-line tasks with a uniform lifecycle.
//
// It validates typed configuration, initializes the logger, and runs
// start and stop hooks around a single task whose context is canceled on
// SIGINT or SIGTERM.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.RunTask(ctx, run); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
