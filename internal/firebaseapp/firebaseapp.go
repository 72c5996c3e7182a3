// Package firebaseapp initialises the Firebase Admin SDK shared by the
// Firestore backend, the ID token middleware and the revoke-role CLI.
package firebaseapp

import (
	"context"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"coaching-backend/internal/config"
)

// New creates a Firebase app. Credentials come from the inline service
// account JSON when set, then from the credentials file, and otherwise from
// Application Default Credentials.
func New(ctx context.Context, cfg config.FirebaseConfig) (*firebase.App, error) {
	log.Println("Initializing Firebase...")

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	log.Printf("Firebase initialized (project=%s)", cfg.ProjectID)
	return app, nil
}

// Auth returns the Auth client with a bounded initialisation time.
func Auth(app *firebase.App) (*auth.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return client, nil
}
