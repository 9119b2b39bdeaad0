// Package auth verifies bearer tokens minted by the hosted identity
// provider and exposes the resulting session to handlers. The service never
// stores credentials; it only checks signatures and reads claims.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gofrs/uuid"
)

const RoleAdmin = "admin"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("admin role required")
)

// Session is the authenticated caller extracted from a verified token.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Parse verifies the token signature and extracts the session claims. The
// role flag travels in the "role" claim, mirroring the identity provider's
// user metadata.
func (m *Manager) Parse(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Session{}, ErrInvalidToken
	}
	userID, err := uuid.FromString(sub)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	session := Session{UserID: userID}
	if email, ok := claims["email"].(string); ok {
		session.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		session.Role = role
	}

	return session, nil
}
