// Package bootstrap starts the application: it installs the configured
// services, then the request middleware, then the routes, then the error
// handler, and finally binds the port.
//
//	app, err := bootstrap.New(bootstrap.Options{
//	    Port:     8080,
//	    Services: []component.Service{mongo},
//	    Routes:   []route.Route{article.NewRoutes(ctl)},
//	}, bootstrap.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
//
// Startup is fail-fast: the first error is returned from Start, no later
// phase runs and nothing listens. Run adds signal handling and graceful
// shutdown, stopping services in reverse install order.
package bootstrap
