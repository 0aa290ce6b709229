// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"findmyspot/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseClients bundles the Admin SDK clients the service talks to.
// Database is nil unless a database URL is configured.
type FirebaseClients struct {
	App       *firebase.App
	Auth      *auth.Client
	Database  *db.Client
	Messaging *messaging.Client
}

// NewFirebaseClients initializes the Firebase App and its Auth, Realtime Database
// and Messaging clients.
func NewFirebaseClients(ctx context.Context) (*FirebaseClients, error) {
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	app, err := firebase.NewApp(ctx, config.FirebaseConfig(), opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}

	clients := &FirebaseClients{
		App:       app,
		Auth:      authClient,
		Messaging: msgClient,
	}

	if config.AppConfig.FirebaseDatabaseURL != "" {
		dbClient, err := app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase: error getting Database client: %w", err)
		}
		clients.Database = dbClient
	}

	return clients, nil
}
