package client

import (
	"context"

	"github.com/dmitrijs2005/echovault/internal/client/models"
)

// Identity is the identity-provider capability. The provider owns the
// sign-in flow; callers only see sessions.
type Identity interface {
	// CurrentSession returns the restored session, or nil when nobody is
	// signed in.
	CurrentSession(ctx context.Context) (*models.Session, error)

	// OnSessionChange registers fn for sign-in, sign-out, token refresh and
	// expiry. The returned func unregisters fn; calling it again is a no-op.
	OnSessionChange(fn func(*models.Session)) (unsubscribe func())

	SignIn(ctx context.Context, provider string) error
	SignOut(ctx context.Context) error
}

// Records is the record-service capability. Every call is atomic for the
// single record it touches.
type Records interface {
	// Query returns all entries of ownerID, newest first.
	Query(ctx context.Context, ownerID string) ([]models.Entry, error)

	// Insert stores e and returns it with service-assigned fields filled in.
	Insert(ctx context.Context, e *models.Entry) (*models.Entry, error)

	// DeleteByID removes one entry. A missing id yields common.ErrNotFound.
	DeleteByID(ctx context.Context, id string) error
}
