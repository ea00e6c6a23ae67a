package app

import (
	"github.com/go-chi/oauth"

	"github.com/mbolis/quick-form/builder"
	"github.com/mbolis/quick-form/config"
	"github.com/mbolis/quick-form/store"
	"github.com/mbolis/quick-form/view"
)

type App struct {
	*store.Store
	Sessions *builder.Registry
	Renderer *view.Renderer
	*oauth.BearerServer
	config.Config
}
