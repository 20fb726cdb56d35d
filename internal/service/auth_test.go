package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"commentmod/internal/model"
)

const testJWTSecret = "test-secret-do-not-use"

func TestLoginWithPlaintextSecret(t *testing.T) {
	svc := NewAuthService("admin", "hunter2", "", testJWTSecret, time.Hour)

	resp, err := svc.Login(model.LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 3600, resp.ExpiresIn)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "moderator", claims["role"])
	assert.Equal(t, "admin", claims["sub"])
	assert.NotEmpty(t, claims["jti"])
}

func TestLoginWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	// The hash takes precedence: the plaintext field is deliberately set
	// to something else and must not be consulted.
	svc := NewAuthService("admin", "wrong-secret", string(hash), testJWTSecret, time.Hour)

	_, err = svc.Login(model.LoginRequest{Username: "admin", Password: "hunter2"})
	assert.NoError(t, err)

	_, err = svc.Login(model.LoginRequest{Username: "admin", Password: "wrong-secret"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService("admin", "hunter2", "", testJWTSecret, time.Hour)

	tests := []struct {
		name string
		req  model.LoginRequest
	}{
		{"wrong username", model.LoginRequest{Username: "root", Password: "hunter2"}},
		{"wrong password", model.LoginRequest{Username: "admin", Password: "letmein"}},
		{"empty password", model.LoginRequest{Username: "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(tt.req)
			assert.ErrorIs(t, err, model.ErrInvalidCredentials)
		})
	}
}

func TestLoginRejectsWhenNoSecretConfigured(t *testing.T) {
	// An unset secret must not mean "accept anything".
	svc := NewAuthService("admin", "", "", testJWTSecret, time.Hour)

	_, err := svc.Login(model.LoginRequest{Username: "admin", Password: ""})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
