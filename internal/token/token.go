// Package token implements the signed identity tokens exchanged between the
// gateway and the services. Access tokens are stateless HS256 JWTs carrying
// the credential identifier as their subject; refresh tokens are opaque
// random values stored hashed in the database.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify when a token is malformed, carries
// an unexpected signing method or its signature does not match the secret.
var ErrInvalidToken = errors.New("invalid token")

// ErrExpiredToken is returned by Verify when the token's expiry has passed.
var ErrExpiredToken = errors.New("token expired")

// AccessToken is a signed access token together with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken is a long-lived opaque token used to obtain new access
// tokens. Raw is returned to the client; only its SHA-256 hash is stored.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// Service issues and verifies access tokens. The signing secret and TTL are
// fixed at construction; there is no ambient configuration and no rotation.
// now is a clock hook that tests override.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a Service signing with secret and issuing tokens valid
// for ttlMin minutes.
func NewService(secret string, ttlMin int) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMin) * time.Minute,
		now:    time.Now,
	}
}

// Issue builds and signs an HS256 JWT whose subject is the given credential
// identifier. Stateless: nothing is persisted.
func (s *Service) Issue(subject string) (AccessToken, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify validates the signature and expiry of a serialized token and
// returns its subject. Tokens signed with a different method or secret fail
// with ErrInvalidToken; tokens past their expiry fail with ErrExpiredToken.
func (s *Service) Verify(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// NewRefreshToken returns a cryptographically random refresh token valid for
// ttlDays days.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hash of a raw refresh token as a hex
// string. Only the hash is persisted so a leaked database cannot be used to
// refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
