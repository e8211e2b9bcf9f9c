package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionLifetime bounds how long a signed session token stays valid.
const SessionLifetime = 24 * time.Hour

var sessionSecret []byte

var ErrInvalidSession = errors.New("invalid session")

// InitSession sets the HMAC key used to sign and verify session tokens.
func InitSession(secret string) {
	if secret == "" {
		panic("session secret is empty")
	}
	sessionSecret = []byte(secret)
}

// Session is the authenticated state carried by the session cookie.
type Session struct {
	UserID int64
	Email  string
}

// IssueSession signs a session token for the given user.
func IssueSession(userID int64, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     now.Add(SessionLifetime).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

// ParseSession verifies a session token and extracts the session state.
func ParseSession(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sessionSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok && int64(exp) < now {
		return nil, ErrInvalidSession
	}
	if nbf, ok := claims["nbf"].(float64); ok && int64(nbf) > now {
		return nil, ErrInvalidSession
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidSession
	}
	email, _ := claims["email"].(string)

	return &Session{UserID: int64(userID), Email: email}, nil
}
