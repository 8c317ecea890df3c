package gcp

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// NewAuthClient returns a Firebase Auth client used to verify the ID tokens
// staff sign in with.
func NewAuthClient(ctx context.Context, projectID string) (*auth.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create an auth client")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	return client, nil
}
