package auth

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
)

var (
	ErrInvalidToken = errors.Unauthorized("invalid token")
	ErrExpiredToken = errors.Unauthorized("token has expired")
)

const (
	tokenIssuer          = "gameon"
	defaultTokenDuration = 24 * time.Hour
)

// Claims are the claims carried by locally signed tokens.
// The user is identified by the registered "sub" claim.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier signs and verifies HS256 tokens with a shared secret.
type JWTVerifier struct {
	secret   []byte
	duration time.Duration
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, stderrors.New("jwt secret must not be empty")
	}
	return &JWTVerifier{secret: []byte(secret), duration: defaultTokenDuration}, nil
}

// GenerateToken creates a signed token for the given identity
func (v *JWTVerifier) GenerateToken(subject, email, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(v.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// ValidateToken validates a token and returns its claims
func (v *JWTVerifier) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verify implements TokenVerifier.
func (v *JWTVerifier) Verify(_ context.Context, raw string) (*Identity, error) {
	claims, err := v.ValidateToken(raw)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}
