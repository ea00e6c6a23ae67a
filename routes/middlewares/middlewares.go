package middlewares

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
)

// Admin checks for the 'admin' role in an OAuth token signed with secret.
func Admin(secret string) func(http.Handler) http.Handler {
	return chi.Chain(CookieAuth, oauth.Authorize(secret, nil), admin).Handler
}

func admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)
		roles := strings.Split(claims["roles"], ",")
		if !slices.Contains(roles, "admin") {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CookieAuth lets GET requests without an Authorization header authenticate
// with the access_token cookie, so rendered pages can be opened in a browser.
func CookieAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.Header.Get("authorization") != "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := r.Cookie("access_token")
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if err == nil {
			r.Header.Set("authorization", "Bearer "+token.Value)
		}
		next.ServeHTTP(w, r)
	})
}
