package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "session"

var ErrInvalidCookie = errors.New("invalid session cookie")

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec signs session ids into HS256 tokens and builds the cookies that
// carry them.
type CookieCodec struct {
	key    []byte
	secure bool
	now    func() time.Time
}

func NewCookieCodec(signingKey string, secure bool) (*CookieCodec, error) {
	if len(signingKey) < 16 {
		return nil, fmt.Errorf("session signing key must be at least 16 bytes")
	}
	return &CookieCodec{key: []byte(signingKey), secure: secure, now: time.Now}, nil
}

func (c *CookieCodec) Encode(s Session) (string, error) {
	claims := cookieClaims{
		SessionID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ActorID.String(),
			IssuedAt:  jwt.NewNumericDate(c.now()),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Decode verifies the token and returns the session id it carries.
func (c *CookieCodec) Decode(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidCookie
	}
	parsed, err := jwt.ParseWithClaims(token, &cookieClaims{}, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}
	claims, ok := parsed.Claims.(*cookieClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", ErrInvalidCookie
	}
	return claims.SessionID, nil
}

func (c *CookieCodec) Cookie(token string, expiresAt time.Time) *http.Cookie {
	maxAge := int(expiresAt.Sub(c.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Expired returns a cookie that makes the browser drop the session.
func (c *CookieCodec) Expired() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
