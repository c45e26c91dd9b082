// Package bootstrap runs a finite task inside carbon's lifecycle: validated
// configuration, a logger, registered components started before the task
// and stopped after it, and SIGINT/SIGTERM wired to the task context.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(database.NewComponent(cfg.Database, app.Logger))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return run(ctx)
//	})
package bootstrap
