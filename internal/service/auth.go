package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the role claim required for catalog writes.
const RoleAdmin = "admin"

var (
	// ErrInvalidToken is returned when a token is malformed, expired or badly signed.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInsufficientRole is returned when a valid token lacks the admin role.
	ErrInsufficientRole = errors.New("token lacks the required role")
	// ErrInvalidAPIKey is returned when an API key matches nothing configured.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrAuthNotConfigured is returned when no credentials of the requested kind exist.
	ErrAuthNotConfigured = errors.New("authentication method not configured")
)

// AdminClaims are the JWT claims accepted for admin access.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuthConfig holds admin credentials.
type AdminAuthConfig struct {
	APIKeys      []string
	APIKeyHashes []string
	JWTSecret    string
	JWTIssuer    string
}

// AdminAuthenticator checks admin API keys and bearer tokens.
type AdminAuthenticator struct {
	apiKeys   []string
	hashes    [][]byte
	jwtSecret []byte
	issuer    string
	now       func() time.Time
}

// NewAdminAuthenticator creates an authenticator from cfg.
func NewAdminAuthenticator(cfg AdminAuthConfig) *AdminAuthenticator {
	a := &AdminAuthenticator{
		apiKeys: cfg.APIKeys,
		issuer:  cfg.JWTIssuer,
		now:     time.Now,
	}
	for _, h := range cfg.APIKeyHashes {
		a.hashes = append(a.hashes, []byte(h))
	}
	if cfg.JWTSecret != "" {
		a.jwtSecret = []byte(cfg.JWTSecret)
	}
	return a
}

// VerifyAPIKey accepts key if it equals a configured key or matches a bcrypt hash.
func (a *AdminAuthenticator) VerifyAPIKey(key string) error {
	if len(a.apiKeys) == 0 && len(a.hashes) == 0 {
		return ErrAuthNotConfigured
	}
	if key == "" {
		return ErrInvalidAPIKey
	}
	for _, k := range a.apiKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return nil
		}
	}
	for _, h := range a.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			return nil
		}
	}
	return ErrInvalidAPIKey
}

// VerifyToken validates an HS256 token and requires the admin role.
func (a *AdminAuthenticator) VerifyToken(tokenString string) (*AdminClaims, error) {
	if len(a.jwtSecret) == 0 {
		return nil, ErrAuthNotConfigured
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin {
		return nil, ErrInsufficientRole
	}
	return claims, nil
}

// IssueToken signs an admin token for subject valid for ttl.
func (a *AdminAuthenticator) IssueToken(subject string, ttl time.Duration) (string, error) {
	if len(a.jwtSecret) == 0 {
		return "", ErrAuthNotConfigured
	}

	now := a.now()
	claims := AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// HashAPIKey returns a bcrypt hash suitable for AUTH_API_KEY_HASHES.
func HashAPIKey(key string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
