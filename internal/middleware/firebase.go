package middleware

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
)

// IDTokenVerifier is the part of *auth.Client the middleware needs.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier accepts Firebase ID tokens. The tenant and role come from
// the custom claims "tenantId" and "role" set by the provisioning scripts.
type FirebaseVerifier struct {
	client IDTokenVerifier
}

// NewFirebaseVerifier wraps a Firebase Auth client.
func NewFirebaseVerifier(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	token, err := v.client.VerifyIDToken(verifyCtx, raw)
	if err != nil {
		log.Printf("[auth] firebase token verification failed: %v", err)
		return Identity{}, ErrInvalidToken
	}

	role, _ := token.Claims["role"].(string)
	tenantID, _ := token.Claims["tenantId"].(string)
	return Identity{UserID: token.UID, Role: role, TenantID: tenantID}, nil
}
