package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// Claims is the JWT payload of a quotedesk session. The subject is the
// principal ID.
type Claims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}

// JWTStore issues and verifies HS256-signed session tokens. Nothing is
// stored server side, so sessions cannot be revoked before they expire.
type JWTStore struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTStore creates a JWTStore signing with secret.
func NewJWTStore(secret string) (*JWTStore, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt.secret is required for the jwt session backend")
	}
	return &JWTStore{secret: []byte(secret), issuer: "quotedesk", now: time.Now}, nil
}

// Issue signs a token carrying the session.
func (s *JWTStore) Issue(ctx context.Context, rec secondary.SessionRecord) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   rec.UserID,
			Issuer:    s.issuer,
			IssuedAt:  s.now().Unix(),
			ExpiresAt: rec.ExpiresAt.Unix(),
		},
		Role: rec.Role,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Resolve verifies the token signature and expiry.
func (s *JWTStore) Resolve(ctx context.Context, tokenString string) (*secondary.SessionRecord, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "invalid session token: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.New(apperr.ErrUnauthenticated, "invalid session token")
	}

	return &secondary.SessionRecord{
		UserID:    claims.Subject,
		Role:      claims.Role,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}

// Ensure JWTStore implements the interface.
var _ secondary.SessionStore = (*JWTStore)(nil)
