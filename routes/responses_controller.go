package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/report"
)

const defaultStatsDays = 7

func ListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := app.Responses(r.Context(), r.URL.Query().Get("form"))
		if err != nil {
			httpx.LogInternalError(w, "store.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

func ClearResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := app.ClearResponses(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "store.clear_responses", err)
			return
		}

		log.Info("store.clear_responses: all responses deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

// ResponseStats answers with the summary figures and the per-day counts,
// computed in the caller's time zone (?tz=Europe/Rome, default UTC).
func ResponseStats(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		loc := time.UTC
		if tz := query.Get("tz"); tz != "" {
			var err error
			if loc, err = time.LoadLocation(tz); err != nil {
				httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.tz", "unknown time zone %q", tz)
				return
			}
		}

		days := defaultStatsDays
		if d := query.Get("days"); d != "" {
			var err error
			if days, err = strconv.Atoi(d); err != nil || days < 0 {
				httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.days", "bad number of days %q", d)
				return
			}
		}

		responses, err := app.Responses(r.Context(), query.Get("form"))
		if err != nil {
			httpx.LogInternalError(w, "store.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"stats": report.SummaryStats(responses, time.Now().In(loc)),
			"daily": report.DailyCounts(responses, loc, days),
		})
	}
}

// ExportResponses downloads the responses as a CSV (default) or JSON file.
func ExportResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		format := report.FormatCSV
		if f := query.Get("format"); f != "" {
			var err error
			if format, err = report.ParseFormat(f); err != nil {
				handleError(w, "request.format", err)
				return
			}
		}

		responses, err := app.Responses(r.Context(), query.Get("form"))
		if err != nil {
			httpx.LogInternalError(w, "store.get_responses", err)
			return
		}

		data, err := report.Export(format, responses)
		if err != nil {
			handleError(w, "report.export", err)
			return
		}

		filename := report.ExportFilename(format, time.Now())
		w.Header().Set("content-type", format.ContentType())
		w.Header().Set("content-disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if _, err = w.Write(data); err != nil {
			log.Warnf("report.export.write: %s", err)
		}
	}
}
