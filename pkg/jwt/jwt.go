// Package jwt signs and verifies the EdDSA access tokens shared by the chat
// and notify servers. The notify server only ever holds the public key.
package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wrxx97/chat/pkg/model"
)

const (
	Issuer     = "chat_server"
	Audience   = "chat_web"
	DefaultTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNoSigningKey = errors.New("no signing key configured")
)

// Claims carries the user record next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	WsID     int64  `json:"ws_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// Manager signs and verifies tokens. A Manager built by NewVerifier cannot sign.
type Manager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	ttl        time.Duration
	parser     *jwt.Parser
}

// NewManager builds a signing manager from PKCS8 (private) and PKIX (public) PEM blocks.
func NewManager(skPEM, pkPEM string, ttl time.Duration) (*Manager, error) {
	m, err := NewVerifier(pkPEM)
	if err != nil {
		return nil, err
	}

	raw, err := jwt.ParseEdPrivateKeyFromPEM([]byte(skPEM))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	sk, ok := raw.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("parse signing key: not an ed25519 key")
	}

	if ttl == 0 {
		ttl = DefaultTTL
	}
	m.privateKey = sk
	m.ttl = ttl
	return m, nil
}

// NewVerifier builds a verify-only manager from a PKIX PEM public key.
func NewVerifier(pkPEM string) (*Manager, error) {
	raw, err := jwt.ParseEdPublicKeyFromPEM([]byte(pkPEM))
	if err != nil {
		return nil, fmt.Errorf("parse verifying key: %w", err)
	}
	pk, ok := raw.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("parse verifying key: not an ed25519 key")
	}

	return &Manager{
		publicKey: pk,
		ttl:       DefaultTTL,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithAudience(Audience),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Sign issues a token for user valid for the manager's ttl.
func (m *Manager) Sign(user *model.User) (string, error) {
	if m.privateKey == nil {
		return "", ErrNoSigningKey
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   user.ID,
		WsID:     user.WsID,
		Fullname: user.Fullname,
		Email:    user.Email,
	}

	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(m.privateKey)
}

// Verify checks signature, issuer, audience and expiry and returns the user
// the token was issued for.
func (m *Manager) Verify(tokenString string) (*model.User, error) {
	token, err := m.parser.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return m.publicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &model.User{
		ID:       claims.UserID,
		WsID:     claims.WsID,
		Fullname: claims.Fullname,
		Email:    claims.Email,
	}, nil
}
