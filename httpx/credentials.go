package httpx

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/erni27/imcache"
	"github.com/go-chi/oauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/quick-form/config"
)

// RefreshTTL is how long a refresh token can be exchanged for a new token pair.
const RefreshTTL = 8760 * time.Hour

var (
	ErrBadCredentials = errors.New("bad credentials")
	errCannotRefresh  = errors.New("could not refresh")
)

type issuedToken struct {
	credential string
	tokenID    string
}

type credentialsVerifier struct {
	user         string
	passwordHash []byte
	// refresh token id -> token it was issued with
	issued *imcache.Cache[string, issuedToken]
}

// CredentialsVerifier checks logins against the configured administrator.
// Every refresh token can be used once.
func CredentialsVerifier(cfg config.Config) oauth.CredentialsVerifier {
	return &credentialsVerifier{
		user:         cfg.AdminUser,
		passwordHash: []byte(cfg.AdminPasswordHash),
		issued:       imcache.New(imcache.WithCleanerOption[string, issuedToken](time.Hour)),
	}
}

func NewBearerServer(cfg config.Config) *oauth.BearerServer {
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, CredentialsVerifier(cfg), nil)
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	if subtle.ConstantTimeCompare([]byte(username), []byte(cs.user)) != 1 {
		return ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(cs.passwordHash, []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}

func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	cs.issued.Set(refreshTokenID, issuedToken{credential, tokenID}, imcache.WithExpiration(RefreshTTL))
	return nil
}

func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	issued, ok := cs.issued.Get(refreshTokenID)
	if !ok || issued.credential != credential || issued.tokenID != tokenID {
		return errCannotRefresh
	}
	if !cs.issued.Remove(refreshTokenID) {
		// a concurrent refresh won
		return errCannotRefresh
	}
	return nil
}

func (*credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{"roles": "admin"}, nil
}
func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}
func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}
