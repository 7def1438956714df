package article

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/articles/errors"
	"github.com/kbukum/articles/server"
	"github.com/kbukum/articles/server/middleware"
)

// Controller serves the article endpoints. Failures are recorded with
// c.Error and answered by the server's error handler.
type Controller struct {
	store Store
}

// NewController creates a controller backed by store.
func NewController(store Store) *Controller {
	return &Controller{store: store}
}

// GetArticle lists all articles.
func (ctl *Controller) GetArticle(c *gin.Context) {
	items, err := ctl.store.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	server.RespondList(c, items)
}

// CreateArticle stores the JSON object parsed by middleware.BodyParser.
func (ctl *Controller) CreateArticle(c *gin.Context) {
	body, _ := middleware.Body(c)
	doc, ok := body.(map[string]any)
	if !ok {
		_ = c.Error(errors.InvalidInput("body", "article must be a JSON object"))
		return
	}

	created, err := ctl.store.Create(c.Request.Context(), doc)
	if err != nil {
		_ = c.Error(err)
		return
	}
	server.RespondCreated(c, created)
}
