package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wrxx97/chat/pkg/model"
)

func generatePEM(t *testing.T) (string, string) {
	t.Helper()
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	skDER, err := x509.MarshalPKCS8PrivateKey(sk)
	require.NoError(t, err)
	pkDER, err := x509.MarshalPKIXPublicKey(pk)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: skDER})),
		string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkDER}))
}

func TestSignVerify(t *testing.T) {
	req := require.New(t)

	// Given a signer and a verify-only manager sharing the public key
	sk, pk := generatePEM(t)
	signer, err := NewManager(sk, pk, 0)
	req.NoError(err)
	verifier, err := NewVerifier(pk)
	req.NoError(err)

	user := &model.User{ID: 7, WsID: 1, Fullname: "Alice", Email: "alice@acme.org"}

	// When a token is signed and verified
	token, err := signer.Sign(user)
	req.NoError(err)
	got, err := verifier.Verify(token)

	// Then the user round-trips
	req.NoError(err)
	req.Equal(user.ID, got.ID)
	req.Equal(user.WsID, got.WsID)
	req.Equal(user.Fullname, got.Fullname)
	req.Equal(user.Email, got.Email)
}

func TestVerify_Expired(t *testing.T) {
	req := require.New(t)

	sk, pk := generatePEM(t)
	m, err := NewManager(sk, pk, -time.Minute)
	req.NoError(err)

	token, err := m.Sign(&model.User{ID: 1})
	req.NoError(err)

	_, err = m.Verify(token)
	req.True(errors.Is(err, ErrExpiredToken))
}

func TestVerify_ForeignKeyAndGarbage(t *testing.T) {
	req := require.New(t)

	sk1, pk1 := generatePEM(t)
	_, pk2 := generatePEM(t)
	signer, err := NewManager(sk1, pk1, time.Hour)
	req.NoError(err)
	other, err := NewVerifier(pk2)
	req.NoError(err)

	token, err := signer.Sign(&model.User{ID: 1})
	req.NoError(err)

	_, err = other.Verify(token)
	req.True(errors.Is(err, ErrInvalidToken))

	_, err = signer.Verify("not-a-token")
	req.True(errors.Is(err, ErrInvalidToken))
}

func TestVerifierCannotSign(t *testing.T) {
	_, pk := generatePEM(t)
	v, err := NewVerifier(pk)
	require.NoError(t, err)

	_, err = v.Sign(&model.User{ID: 1})
	require.ErrorIs(t, err, ErrNoSigningKey)
}

func TestNewVerifier_BadPEM(t *testing.T) {
	_, err := NewVerifier("nope")
	require.Error(t, err)
}
