package article

import "github.com/kbukum/articles/route"

// Prefix is the mount point of the article routes.
const Prefix = "/articles"

// Routes mounts the article endpoints:
//
//	GET  /articles/  -> Controller.GetArticle
//	POST /articles/  -> Controller.CreateArticle
type Routes struct {
	ctl *Controller
}

var (
	_ route.Route    = (*Routes)(nil)
	_ route.Prefixed = (*Routes)(nil)
)

func NewRoutes(ctl *Controller) *Routes {
	return &Routes{ctl: ctl}
}

func (r *Routes) Prefix() string { return Prefix }

func (r *Routes) Configuration(router *route.Router) {
	router.Get("/", r.ctl.GetArticle)
	router.Post("/", r.ctl.CreateArticle)
}
