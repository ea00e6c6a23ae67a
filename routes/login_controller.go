package routes

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/log"
)

var reRefreshAuth = regexp.MustCompile(`(?i)^refresh\s+(.+)`)

// grant replays r as a form-encoded token request against the bearer server.
func grant(app app.App, w http.ResponseWriter, r *http.Request, code string, body url.Values) {
	encoded := body.Encode()
	req := r.Clone(r.Context())
	req.Method = http.MethodPost
	req.Body = io.NopCloser(strings.NewReader(encoded))
	req.ContentLength = int64(len(encoded))
	req.Form, req.PostForm = nil, nil
	req.Header.Del("authorization")
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	req.Header.Set("content-length", strconv.Itoa(len(encoded)))

	resp := httpx.NewResponseBuffer()
	app.UserCredentials(resp, req)
	if resp.Status() != http.StatusOK {
		log.Debugf("%s: status %d", code, resp.Status())
	}
	if err := resp.Flush(w); err != nil {
		log.Warnf("%s.flush: %s", code, err)
	}
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}

		grant(app, w, r, "login", url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		})
	}
}

func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match := reRefreshAuth.FindStringSubmatch(r.Header.Get("authorization"))
		if match == nil {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}

		grant(app, w, r, "refresh", url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {match[1]},
		})
	}
}
