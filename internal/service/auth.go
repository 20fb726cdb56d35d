package service

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"commentmod/internal/model"
)

// AuthService gates the moderation console. A single configured
// credential is exchanged for a stateless HS256 token; there is no
// session store, refresh, or revocation.
type AuthService struct {
	username     string
	password     string // plaintext secret
	passwordHash string // bcrypt hash, preferred when set
	jwtSecret    string
	tokenMaxAge  time.Duration
}

func NewAuthService(username, password, passwordHash, jwtSecret string, tokenMaxAge time.Duration) *AuthService {
	return &AuthService{
		username:     username,
		password:     password,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		tokenMaxAge:  tokenMaxAge,
	}
}

// Login checks the credential and issues a moderator token. When a
// bcrypt hash is configured it wins over the plaintext secret; the
// plaintext comparison is constant-time either way.
func (s *AuthService) Login(req model.LoginRequest) (model.LoginResponse, error) {
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) != 1 {
		return model.LoginResponse{}, model.ErrInvalidCredentials
	}

	if s.passwordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
			return model.LoginResponse{}, model.ErrInvalidCredentials
		}
	} else {
		if s.password == "" ||
			subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.password)) != 1 {
			return model.LoginResponse{}, model.ErrInvalidCredentials
		}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  req.Username,
		"role": "moderator",
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenMaxAge).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return model.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokenMaxAge.Seconds()),
	}, nil
}
