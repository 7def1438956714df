// Package route mounts HTTP routes on the server.
//
// A Route declares its handlers in Configuration; if it also implements
// Prefixed, every path it declares is mounted under that prefix.
//
//	func (r *Routes) Prefix() string { return "/articles" }
//	func (r *Routes) Configuration(router *route.Router) {
//	    router.Get("/", r.controller.GetArticle)
//	}
//
//	err := route.Config(srv, articleRoutes)
package route
