// Package firebase initializes the Firebase Admin SDK.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if err := checkCredentials(credentialsPath); err != nil {
		return nil, err
	}

	firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	slog.Info("firebase auth client initialized", "credentials", credentialsPath)
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

func checkCredentials(path string) error {
	if path == "" {
		return errors.New("firebase credentials path not provided")
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("firebase credentials file not found at %s", path)
	}
	if err != nil {
		return fmt.Errorf("firebase credentials: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("firebase credentials path %s is a directory", path)
	}
	return nil
}
