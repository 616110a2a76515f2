package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "connection_session"

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionClaims extend the registered JWT claims with what the
// middleware needs to build the request context.
type SessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionProvider issues and validates HMAC-signed session tokens.
// Tokens are opaque to clients; they only travel in the session cookie.
type SessionProvider struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewSessionProvider(secret string, ttl time.Duration) *SessionProvider {
	return &SessionProvider{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "the-connection",
	}
}

// TTL returns the configured session lifetime.
func (s *SessionProvider) TTL() time.Duration { return s.ttl }

// Issue signs a session token for the user.
func (s *SessionProvider) Issue(userID, username, role string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks signature and expiry and returns the claims.
func (s *SessionProvider) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC so a forged token cannot downgrade
		// the signing algorithm.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
