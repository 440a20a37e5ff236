// Package bootstrap runs a container as part of an application lifecycle.
//
// An App loads the container configuration, initializes logging, exports
// resolution traces and metrics over OTLP when configured, and optionally
// serves the debug endpoints of package debug. Bindings are registered in
// OnStart hooks so they can use everything the App has set up.
//
//	cfg, err := bootstrap.LoadConfig("orders")
//	app, err := bootstrap.NewApp(cfg)
//	app.OnStart(func(ctx context.Context) error {
//	    app.Container.Bind(di.Key[Store]()).To(di.Key[PostgresStore]())
//	    return nil
//	})
//	app.Run(context.Background())
package bootstrap
