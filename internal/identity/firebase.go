package identity

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
)

// FirebaseClient is the subset of *auth.Client used here.
type FirebaseClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// FirebaseProvider verifies Firebase ID tokens and reads profiles through the
// Firebase Admin SDK.
type FirebaseProvider struct {
	client FirebaseClient
}

// NewFirebaseProvider creates a FirebaseProvider
func NewFirebaseProvider(client FirebaseClient) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := &Identity{UID: token.UID, Claims: token.Claims}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}

func (p *FirebaseProvider) Profile(ctx context.Context, id *Identity) (*Profile, error) {
	record, err := p.client.GetUser(ctx, id.UID)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("get firebase user %s: %w", id.UID, err)
	}

	profile := &Profile{UID: id.UID, Email: id.Email, DisplayName: id.Name}
	if record.UserInfo != nil {
		if record.Email != "" {
			profile.Email = record.Email
		}
		if record.DisplayName != "" {
			profile.DisplayName = record.DisplayName
		}
	}
	profile.FirstName, profile.LastName = splitName(profile.DisplayName)

	if md := record.UserMetadata; md != nil {
		profile.CreatedAt = millis(md.CreationTimestamp)
		profile.UpdatedAt = millis(md.LastRefreshTimestamp)
		if profile.UpdatedAt.IsZero() {
			profile.UpdatedAt = profile.CreatedAt
		}
	}
	return profile, nil
}

func millis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
