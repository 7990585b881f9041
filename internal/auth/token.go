package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the HTTP-only cookie that carries the session token.
const CookieName = "bonds_chat"

// DefaultTokenTTL is the access token lifetime when the config leaves it unset.
const DefaultTokenTTL = 15 * time.Minute

var (
	// ErrInvalidToken is returned when a token is malformed or its signature
	// does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a well-formed token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// TokenClaims is the decoded content of a session token.
type TokenClaims struct {
	SubjectID uint
	ExpiresAt time.Time
}

// TokenIssuer signs tokens with an RSA private key and verifies them with the
// matching public key, so verification can be handed to components that must
// not be able to sign.
type TokenIssuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
}

// NewTokenIssuer builds an issuer from PEM-encoded RSA keys. privatePEM may be
// nil to produce a verify-only issuer.
func NewTokenIssuer(privatePEM, publicPEM []byte, ttl time.Duration) (*TokenIssuer, error) {
	pub, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	issuer := &TokenIssuer{publicKey: pub, ttl: ttl}
	if issuer.ttl <= 0 {
		issuer.ttl = DefaultTokenTTL
	}

	if privatePEM != nil {
		priv, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		issuer.privateKey = priv
	}

	return issuer, nil
}

// NewTokenIssuerFromFiles loads PEM key material from disk. privatePath may be
// empty for a verify-only issuer.
func NewTokenIssuerFromFiles(privatePath, publicPath string, ttl time.Duration) (*TokenIssuer, error) {
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	var privatePEM []byte
	if privatePath != "" {
		privatePEM, err = os.ReadFile(privatePath)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
	}

	return NewTokenIssuer(privatePEM, publicPEM, ttl)
}

// TTL reports the configured token lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs a time-bounded RS256 token for the given subject.
func (t *TokenIssuer) Issue(subjectID uint) (string, error) {
	if t.privateKey == nil {
		return "", errors.New("issuer has no signing key")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(subjectID), 10),
		"exp": now.Add(t.ttl).Unix(),
		"iat": now.Unix(),
		"jti": uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(t.privateKey)
}

// Decode verifies the token signature and expiry and returns its claims.
func (t *TokenIssuer) Decode(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return t.publicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	subjectID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		SubjectID: uint(subjectID),
		ExpiresAt: exp.Time,
	}, nil
}
