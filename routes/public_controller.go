package routes

import (
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/model"
)

func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		doc, err := app.Get(r.Context(), formID)
		if err != nil {
			handleError(w, "store.get_form", err)
			return
		}

		render.JSON(w, r, doc)
	}
}

func PublicViewForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		doc, err := app.Get(r.Context(), formID)
		if err != nil {
			handleError(w, "store.get_form", err)
			return
		}

		renderHTML(w, "view.preview", func(out io.Writer) error {
			return app.Renderer.Preview(out, doc)
		})
	}
}

type submitCheck struct {
	start  bool
	key    string
	result chan<- bool
}

// inFlight tracks the submissions being recorded, keyed by form and client address.
type inFlight chan<- submitCheck

func newInFlight() inFlight {
	checks := make(chan submitCheck)
	go func() {
		running := make(map[string]bool)

		for req := range checks {
			if req.start {
				req.result <- running[req.key]
				running[req.key] = true
			} else {
				delete(running, req.key)
			}
		}
	}()
	return checks
}

// begin reports false when key is already being processed.
func (f inFlight) begin(key string) bool {
	busy := make(chan bool)
	f <- submitCheck{true, key, busy}
	return !<-busy
}

func (f inFlight) end(key string) {
	f <- submitCheck{false, key, nil}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func PublicSubmitResponse(app app.App) http.HandlerFunc {
	submitting := newInFlight()

	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		resp := model.Response{}
		err := render.DecodeJSON(r.Body, &resp)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		resp.FormID = formID
		resp.Timestamp = time.Now().UTC()

		if err = model.ValidateResponse(&resp); err != nil {
			handleError(w, "response.validate", err)
			return
		}

		doc, err := app.Get(r.Context(), formID)
		if err != nil {
			handleError(w, "store.get_form", err)
			return
		}

		if err = model.CheckAnswers(&doc, resp.Answers); err != nil {
			handleError(w, "response.required", err)
			return
		}
		settings := doc.Settings
		if settings.RequireLogin && resp.Email == "" {
			httpx.LogStatusMsg(w, http.StatusUnauthorized, log.DebugLevel, "response.login", "form %s requires an email address", formID)
			return
		}
		if settings.TimeLimit > 0 && resp.Duration > settings.TimeLimit*60 {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "response.time_limit", "time limit of %d minutes exceeded", settings.TimeLimit)
			return
		}

		key := formID + "|" + clientIP(r)
		if !submitting.begin(key) {
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "response.already_submitting")
			return
		}
		defer submitting.end(key)

		err = app.AppendLimited(r.Context(), resp, settings.ResponseLimit)
		if err != nil {
			handleError(w, "store.append_response", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"formId":    resp.FormID,
			"timestamp": resp.Timestamp,
		})
	}
}
