package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TypAccess  = "access"
	TypRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	Typ      string `json:"typ"`
	Email    string `json:"email"`
	StudioID string `json:"studio_id,omitempty"`
	jwt.RegisteredClaims
}

func (c AccessClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Studio returns uuid.Nil when the token carries no active studio.
func (c AccessClaims) Studio() uuid.UUID {
	id, err := uuid.Parse(c.StudioID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

type RefreshClaims struct {
	Typ      string `json:"typ"`
	StudioID string `json:"studio_id,omitempty"`
	jwt.RegisteredClaims
}

func SignAccess(secret string, userID uuid.UUID, email string, studioID uuid.UUID, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := AccessClaims{
		Typ:   TypAccess,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	if studioID != uuid.Nil {
		claims.StudioID = studioID.String()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return s, exp, err
}

func SignRefresh(secret string, userID uuid.UUID, studioID uuid.UUID, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := RefreshClaims{
		Typ: TypRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	if studioID != uuid.Nil {
		claims.StudioID = studioID.String()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return s, exp, err
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}

func ParseAccess(secret, raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, keyFunc(secret))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Typ != TypAccess {
		return nil, fmt.Errorf("%w: wrong typ %q", ErrInvalidToken, claims.Typ)
	}
	return claims, nil
}

func ParseRefresh(secret, raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, keyFunc(secret))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Typ != TypRefresh {
		return nil, fmt.Errorf("%w: wrong typ %q", ErrInvalidToken, claims.Typ)
	}
	return claims, nil
}

// RefreshHash is what refresh_tokens.token_hash stores; the plaintext never hits the DB.
func RefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

// BlacklistKey is the HMAC-hex stored in token_blacklist.token.
func BlacklistKey(token, secret string) string {
	return hex.EncodeToString(RefreshHash(token, secret))
}
