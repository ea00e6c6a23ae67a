package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/builder"
	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/view"
)

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "store.list_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := app.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, "store.get_form", err)
			return
		}

		render.JSON(w, r, doc)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := app.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, "store.delete_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ShareForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := app.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, "store.get_form", err)
			return
		}

		link, snippet := view.ShareLink(app.PublicURL(), doc.ID)
		render.JSON(w, r, map[string]any{
			"link":  link,
			"embed": snippet,
		})
	}
}

func GetFormResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")
		if _, err := app.Get(r.Context(), formID); err != nil {
			handleError(w, "store.get_form", err)
			return
		}

		responses, err := app.Responses(r.Context(), formID)
		if err != nil {
			httpx.LogInternalError(w, "store.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

func ListTemplates(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"templates": builder.Templates(),
		})
	}
}

func RenderPalette(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderHTML(w, "view.palette", app.Renderer.Palette)
	}
}

func GetSettings(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"settings": app.Settings(r.Context()),
		})
	}
}

func UpdateSettings(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := map[string]any{}
		err := render.DecodeJSON(r.Body, &values)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = app.UpdateSettings(r.Context(), values)
		if err != nil {
			httpx.LogInternalError(w, "store.update_settings", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"settings": app.Settings(r.Context()),
		})
	}
}
