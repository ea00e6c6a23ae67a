package routes

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/builder"
	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/model"
)

type sessionState struct {
	ID         string          `json:"id"`
	Document   *model.Document `json:"document"`
	SelectedID string          `json:"selectedId,omitempty"`
}

func stateOf(id string, s *builder.Session) sessionState {
	state := sessionState{ID: id, SelectedID: s.SelectedID()}
	if doc, ok := s.Document(); ok {
		state.Document = &doc
	}
	return state
}

type newSession struct {
	// Template names a builder template to start from.
	Template string `json:"template"`
	// FormID names a stored form to edit.
	FormID string `json:"formId"`
}

// CreateSession opens a builder session on a blank form, a template or a copy
// of a stored form.
func CreateSession(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := newSession{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil && !errors.Is(err, io.EOF) {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		var start func(*builder.Session) error
		switch {
		case req.Template != "":
			start = func(s *builder.Session) error {
				_, err := s.ApplyTemplate(req.Template)
				return err
			}
		case req.FormID != "":
			doc, err := app.Get(r.Context(), req.FormID)
			if err != nil {
				handleError(w, "store.get_form", err)
				return
			}
			start = func(s *builder.Session) error {
				s.LoadDocument(doc)
				return nil
			}
		default:
			start = func(s *builder.Session) error {
				s.StartNewDocument()
				return nil
			}
		}

		id := app.Sessions.Create()
		var state sessionState
		err = app.Sessions.Do(id, func(s *builder.Session) error {
			if err := start(s); err != nil {
				return err
			}
			state = stateOf(id, s)
			return nil
		})
		if err != nil {
			app.Sessions.Remove(id)
			handleError(w, "builder.create_session", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, state)
	}
}

func GetSession(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sid")

		var state sessionState
		err := app.Sessions.Do(id, func(s *builder.Session) error {
			state = stateOf(id, s)
			return nil
		})
		if err != nil {
			handleError(w, "builder.get_session", err)
			return
		}

		render.JSON(w, r, state)
	}
}

func DeleteSession(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sid")
		if !app.Sessions.Remove(id) {
			httpx.LogNotFound(w, "builder.delete_session", id)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ApplyCommand runs one builder command and answers with the resulting state.
func ApplyCommand(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sid")

		cmd := builder.Command{}
		err := render.DecodeJSON(r.Body, &cmd)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		var state sessionState
		err = app.Sessions.Do(id, func(s *builder.Session) error {
			if err := s.Apply(cmd); err != nil {
				return err
			}
			state = stateOf(id, s)
			return nil
		})
		if err != nil {
			handleError(w, "builder.apply."+string(cmd.Op), err)
			return
		}

		log.Debugf("builder.apply: session %s: %s", id, cmd)
		render.JSON(w, r, state)
	}
}

func SaveSession(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sid")

		var saved model.Document
		err := app.Sessions.Do(id, func(s *builder.Session) (err error) {
			saved, err = s.Save(r.Context())
			return
		})
		if err != nil {
			handleError(w, "builder.save", err)
			return
		}

		log.Infof("builder.save: form %s saved", saved.ID)
		render.JSON(w, r, saved)
	}
}

func RenderCanvas(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sid")

		var doc model.Document
		var selectedID string
		err := app.Sessions.Do(id, func(s *builder.Session) error {
			var ok bool
			if doc, ok = s.Document(); !ok {
				return builder.ErrNoDocument
			}
			selectedID = s.SelectedID()
			return nil
		})
		if err != nil {
			handleError(w, "builder.canvas", err)
			return
		}

		renderHTML(w, "view.canvas", func(out io.Writer) error {
			return app.Renderer.Document(out, doc, selectedID)
		})
	}
}

func RenderProperties(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sid")

		var selected *model.Element
		err := app.Sessions.Do(id, func(s *builder.Session) error {
			if el, ok := s.Selected(); ok {
				selected = &el
			}
			return nil
		})
		if err != nil {
			handleError(w, "builder.properties", err)
			return
		}

		renderHTML(w, "view.properties", func(out io.Writer) error {
			return app.Renderer.Properties(out, selected)
		})
	}
}

func RenderElement(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, elementID := chi.URLParam(r, "sid"), chi.URLParam(r, "eid")

		var el model.Element
		var selected bool
		err := app.Sessions.Do(id, func(s *builder.Session) error {
			doc, ok := s.Document()
			if !ok {
				return builder.ErrNoDocument
			}
			found := doc.Element(elementID)
			if found == nil {
				return builder.ErrElementNotFound
			}
			el, selected = *found, s.SelectedID() == elementID
			return nil
		})
		if err != nil {
			handleError(w, "builder.element", err)
			return
		}

		renderHTML(w, "view.element", func(out io.Writer) error {
			return app.Renderer.Element(out, el, selected)
		})
	}
}
