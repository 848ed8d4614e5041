package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/scythe504/guesswho-backend/internal"
)

// Identity is the verified result of a handshake credential.
type Identity struct {
	UserId   string
	Username string
}

// Verifier validates a bearer credential and resolves it to an identity.
// Verification failure is fatal to the connection that presented it.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// JWTVerifier checks HMAC-signed tokens issued by the auth service. The
// subject claim carries the user id; "name" is the display name.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", internal.ErrUnauthorized)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", internal.ErrUnauthorized, err)
	}

	userId, err := claims.GetSubject()
	if err != nil || userId == "" {
		return nil, fmt.Errorf("%w: token has no subject", internal.ErrUnauthorized)
	}

	identity := &Identity{UserId: userId}
	if name, ok := claims["name"].(string); ok {
		identity.Username = name
	}
	return identity, nil
}
