package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig selects the key material. PrivateKeyPEM enables RS256 signing and
// verification, PublicKeyPEM alone enables RS256 verification only, and
// Secret selects HS256.
type JWTConfig struct {
	Secret        string
	PrivateKeyPEM []byte
	PublicKeyPEM  []byte

	Issuer string
	TTL    time.Duration
	Leeway time.Duration
}

// JWTService issues and validates tokens.
type JWTService struct {
	cfg       JWTConfig
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

var ErrSigningUnavailable = errors.New("auth: no signing key configured")

func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{cfg: cfg}

	switch {
	case len(cfg.PrivateKeyPEM) > 0:
		key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("auth: parse RSA private key: %w", err)
		}
		svc.method = jwt.SigningMethodRS256
		svc.signKey = key
		svc.verifyKey = &key.PublicKey
	case len(cfg.PublicKeyPEM) > 0:
		key, err := jwt.ParseRSAPublicKeyFromPEM(cfg.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("auth: parse RSA public key: %w", err)
		}
		svc.method = jwt.SigningMethodRS256
		svc.verifyKey = key
	case cfg.Secret != "":
		svc.method = jwt.SigningMethodHS256
		svc.signKey = []byte(cfg.Secret)
		svc.verifyKey = []byte(cfg.Secret)
	default:
		return nil, errors.New("auth: a private key, public key or secret is required")
	}

	if svc.cfg.TTL <= 0 {
		svc.cfg.TTL = time.Hour
	}
	return svc, nil
}

// Issue signs a token for userID valid from now for the configured TTL.
func (s *JWTService) Issue(userID string, roles []string, now time.Time) (string, error) {
	if s.signKey == nil {
		return "", ErrSigningUnavailable
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			ID:        uuid.NewString(),
		},
		UserID: userID,
		Roles:  roles,
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Validate parses token, checks its signature, expiry and issuer, and returns
// the claims.
func (s *JWTService) Validate(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.cfg.Leeway),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.verifyKey, nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}
