package routes

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/mbolis/quick-form/builder"
	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/model"
	"github.com/mbolis/quick-form/report"
	"github.com/mbolis/quick-form/store"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{builder.ErrSessionNotFound, http.StatusNotFound},
	{builder.ErrElementNotFound, http.StatusNotFound},
	{store.ErrFormNotFound, http.StatusNotFound},
	{report.ErrNoResponses, http.StatusNotFound},

	{builder.ErrNoDocument, http.StatusConflict},
	{builder.ErrNoSelection, http.StatusConflict},
	{builder.ErrNoOptions, http.StatusConflict},
	{store.ErrResponseLimit, http.StatusConflict},

	{builder.ErrUnknownElementType, http.StatusBadRequest},
	{builder.ErrUnknownField, http.StatusBadRequest},
	{builder.ErrFieldValue, http.StatusBadRequest},
	{builder.ErrUnknownTemplate, http.StatusBadRequest},
	{builder.ErrUnknownCommand, http.StatusBadRequest},
	{model.ErrUnknownType, http.StatusBadRequest},
	{model.ErrInvalidDocument, http.StatusBadRequest},
	{model.ErrInvalidResponse, http.StatusBadRequest},
	{model.ErrMissingAnswers, http.StatusBadRequest},
	{report.ErrUnknownFormat, http.StatusBadRequest},
}

func statusOf(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// handleError answers with the status matching err; unknown errors are logged as internal.
func handleError(w http.ResponseWriter, code string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		httpx.LogInternalError(w, code, err)
		return
	}
	httpx.LogClientError(w, status, code, err)
}

// renderHTML buffers the page so a failed render still gets a clean 500.
func renderHTML(w http.ResponseWriter, code string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		handleError(w, code, err)
		return
	}

	w.Header().Set("content-type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Warnf("%s.write: %s", code, err)
	}
}
