package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RealIP, middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/forms/{id}", PublicGetForm(app))
	api.Get("/forms/{id}/view", PublicViewForm(app))
	api.Post("/forms/{id}/responses", PublicSubmitResponse(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		r.Get("/forms", ListForms(app))
		r.Get("/forms/{id}", GetForm(app))
		r.Delete("/forms/{id}", DeleteForm(app))
		r.Get("/forms/{id}/share", ShareForm(app))
		r.Get("/forms/{id}/responses", GetFormResponses(app))

		r.Get("/templates", ListTemplates(app))
		r.Get("/palette", RenderPalette(app))

		r.Post("/sessions", CreateSession(app))
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Get("/", GetSession(app))
			r.Delete("/", DeleteSession(app))
			r.Post("/commands", ApplyCommand(app))
			r.Post("/save", SaveSession(app))
			r.Get("/canvas", RenderCanvas(app))
			r.Get("/properties", RenderProperties(app))
			r.Get("/elements/{eid}", RenderElement(app))
		})

		r.Get("/responses", ListResponses(app))
		r.Delete("/responses", ClearResponses(app))
		r.Get("/responses/stats", ResponseStats(app))
		r.Get("/responses/export", ExportResponses(app))

		r.Get("/settings", GetSettings(app))
		r.Put("/settings", UpdateSettings(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
