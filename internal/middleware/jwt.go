package middleware

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of issued panel tokens.
const TokenTTL = 7 * 24 * time.Hour

// JWTVerifier checks HS256 tokens issued by the auth handler.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	userID, _ := claims["userId"].(string)
	role, _ := claims["role"].(string)
	tenantID, _ := claims["tenantId"].(string)
	return Identity{UserID: userID, Role: role, TenantID: tenantID}, nil
}

// IssueToken signs a token carrying the user, role and tenant claims.
func IssueToken(secret string, id Identity, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"userId":   id.UserID,
		"role":     id.Role,
		"tenantId": id.TenantID,
		"exp":      now.Add(TokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
