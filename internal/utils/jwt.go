package utils // package utils provides token signing and hashing helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// Verification failures are distinguished internally so that logs and
// tests can tell them apart.  Handlers collapse all three into one
// uniform 401 response so the wire never reveals which check failed.
var (
	ErrTokenMalformed = errors.New("access token malformed")
	ErrTokenSignature = errors.New("access token signature invalid")
	ErrTokenExpired   = errors.New("access token expired")
)

// AccessToken is a signed HS256 JWT along with its expiry instant.  Access
// tokens are short-lived, stateless and carried in the Authorization
// header on protected endpoints; verifying one never touches storage.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken builds and signs an HS256 JWT whose subject is the
// username.  Claims are the standard sub, exp and iat; the TTL is given
// in minutes.  All times are UTC.
func NewAccessToken(secret, username string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": username,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken checks the signature and expiry of a serialized access
// token and returns its subject.  The signing method is pinned to HMAC so
// a token signed with a different algorithm fails as a signature error.
func VerifyAccessToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", ErrTokenSignature
		}
	}
	if !tok.Valid {
		return "", ErrTokenSignature
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMalformed
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrTokenMalformed
	}
	return sub, nil
}
