package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
)

// Directory resolves a user's display name from the auth provider. Used
// best-effort when a project is shared, to populate the owner
// display-name cache.
type Directory interface {
	DisplayName(ctx context.Context, uid string) (string, error)
}

type firebaseDirectory struct {
	client *fbauth.Client
}

// NewFirebaseDirectory wraps a Firebase Auth client as a Directory.
func NewFirebaseDirectory(client *fbauth.Client) Directory {
	return &firebaseDirectory{client: client}
}

func (d *firebaseDirectory) DisplayName(ctx context.Context, uid string) (string, error) {
	record, err := d.client.GetUser(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("failed to look up user %s: %w", uid, err)
	}
	if record.DisplayName != "" {
		return record.DisplayName, nil
	}
	return record.Email, nil
}
