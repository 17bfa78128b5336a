// README: Firebase Admin SDK initialisation. Verified ID tokens become an auth.Session for trip routes.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"vtc/internal/auth"
)

// TokenVerifier turns a raw bearer token into the caller's session.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (auth.Session, error)
}

type firebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier creates a TokenVerifier using the Firebase Admin SDK.
// If credentialsFile is empty, application-default credentials are used.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (auth.Session, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return auth.Session{}, err
	}
	return sessionFromToken(idToken, token)
}

// sessionFromToken keeps the raw token so trip calls can forward it to the backend.
func sessionFromToken(raw string, token *fbauth.Token) (auth.Session, error) {
	if token == nil || token.UID == "" {
		return auth.Session{}, auth.ErrNoSession
	}
	s := auth.Session{UID: token.UID, Token: raw}
	if email, ok := token.Claims["email"].(string); ok {
		s.Email = email
	}
	return s, nil
}
