package route

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Route is a group of HTTP handlers.
type Route interface {
	Configuration(r *Router)
}

// Prefixed is implemented by routes mounted under a path prefix.
type Prefixed interface {
	Prefix() string
}

// Mounter creates route groups; *server.Server implements it.
type Mounter interface {
	Group(prefix string) *gin.RouterGroup
}

// Router is the registration surface handed to a Route.
type Router struct {
	group *gin.RouterGroup
}

// NewRouter wraps a Gin route group.
func NewRouter(group *gin.RouterGroup) *Router {
	return &Router{group: group}
}

func (r *Router) Get(path string, handlers ...gin.HandlerFunc) {
	r.group.GET(path, handlers...)
}

func (r *Router) Post(path string, handlers ...gin.HandlerFunc) {
	r.group.POST(path, handlers...)
}

func (r *Router) Put(path string, handlers ...gin.HandlerFunc) {
	r.group.PUT(path, handlers...)
}

func (r *Router) Patch(path string, handlers ...gin.HandlerFunc) {
	r.group.PATCH(path, handlers...)
}

func (r *Router) Delete(path string, handlers ...gin.HandlerFunc) {
	r.group.DELETE(path, handlers...)
}

// Use adds middleware to the routes declared after it on this router only.
func (r *Router) Use(handlers ...gin.HandlerFunc) {
	r.group.Use(handlers...)
}

// BasePath returns the prefix this router mounts under.
func (r *Router) BasePath() string {
	return r.group.BasePath()
}

// Config applies each route, in order, to m. Gin panics on conflicting
// registrations; the panic is returned as an error naming the route.
func Config(m Mounter, routes ...Route) error {
	for i, rt := range routes {
		if err := mount(m, rt); err != nil {
			return fmt.Errorf("route %d (%T): %w", i, rt, err)
		}
	}
	return nil
}

func mount(m Mounter, rt Route) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("mount failed: %v", rec)
		}
	}()

	prefix := ""
	if p, ok := rt.(Prefixed); ok {
		prefix = p.Prefix()
	}
	rt.Configuration(NewRouter(m.Group(prefix)))
	return nil
}
