package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/dine-service/internal/domain"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = 2 * time.Hour

// ErrInvalidToken covers bad signatures, malformed and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes JWT payload. The identity fields are signed as submitted.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs the identity. Nothing checks that the identity belongs
// to a registered user.
func (tm *TokenManager) GenerateToken(identity domain.Identity) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims. Every failure wraps ErrInvalidToken.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
