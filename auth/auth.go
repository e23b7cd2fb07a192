package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fcendesu/poke-deck/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoToken      = errors.New("no session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Verifier validates session tokens issued by the auth service and
// extracts the user identity.
type Verifier struct {
	secret []byte
}

func NewVerifier(cfg config.ConfigAuth) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth secret is not configured")
	}
	return &Verifier{secret: []byte(cfg.Secret)}, nil
}

// UserID validates the token signature and expiry and returns the user id
// from the userId claim.
func (v *Verifier) UserID(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	raw, ok := claims["userId"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// FromRequest pulls the session token from the Authorization header or the
// session cookie and returns the authenticated user id.
func (v *Verifier) FromRequest(r *http.Request) (uuid.UUID, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return uuid.Nil, ErrInvalidToken
		}
		return v.UserID(token)
	}
	cookie, err := r.Cookie("session_token")
	if err != nil {
		return uuid.Nil, ErrNoToken
	}
	return v.UserID(cookie.Value)
}
