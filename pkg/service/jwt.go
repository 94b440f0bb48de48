package service

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "repair-desk/pkg/errors"
)

// IdentityClaims are issued by the identity provider. The subject is the
// caller's principal.
type IdentityClaims struct {
	jwt.RegisteredClaims
}

func (c *IdentityClaims) Principal() string {
	return c.Subject
}

type JWTService interface {
	// GenerateToken issues a token for principal. Production tokens come from
	// the identity provider; this is for local development and tests.
	GenerateToken(principal string) (string, error)
	ValidateToken(tokenString string) (*IdentityClaims, error)
	GetTokenTTL() time.Duration
}

type jwtService struct {
	secretKey string
	issuer    string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewJWTService(secretKey, issuer string, tokenTTL time.Duration) JWTService {
	return &jwtService{secretKey: secretKey, issuer: issuer, tokenTTL: tokenTTL, now: time.Now}
}

func (s *jwtService) GetTokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *jwtService) GenerateToken(principal string) (string, error) {
	if principal == "" {
		return "", fmt.Errorf("empty principal: %w", apperrors.ErrInvalidToken)
	}
	now := s.now()
	claims := &IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(s.secretKey))
}

func (s *jwtService) ValidateToken(tokenString string) (*IdentityClaims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(s.secretKey), nil
	}, opts...)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperrors.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, apperrors.ErrTokenNotYetValid
	case errors.Is(err, apperrors.ErrInvalidSigningMethod):
		return nil, apperrors.ErrInvalidSigningMethod
	default:
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
