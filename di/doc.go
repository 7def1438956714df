// Package di provides the service registry: a container that maps string
// identifiers to constructors and builds each instance once, on first use.
//
//	c := di.NewContainer()
//	c.Register(di.Services.Mongo, func() (*mongodb.Service, error) { ... })
//	svc, err := di.Resolve[component.Service](c, di.Services.Mongo)
//
// Resolving the same identifier again returns the cached instance.
package di
