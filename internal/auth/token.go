package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. The purpose claim keeps the three token kinds from being
// substituted for one another; callers assert the purpose they expect.
const (
	PurposeAccess      = "access"
	PurposeRefresh     = "refresh"
	PurposeVerifyEmail = "verify-email"
)

// ErrInvalidToken covers every verification failure: bad signature,
// expiry, malformed input. Callers get no finer detail so responses
// cannot leak why a token was rejected.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload: the registered subject/expiry plus the
// purpose tag.
type Claims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// TokenService signs and verifies HS256 JWTs with a process-wide secret.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token for subject with the given purpose, expiring ttl
// from now.
func (s *TokenService) Issue(subject, purpose string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the token's subject and
// purpose. It does not compare the purpose against any expectation; that
// is the caller's job.
func (s *TokenService) Verify(token string) (subject, purpose string, err error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Purpose, nil
}
