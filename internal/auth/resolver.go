// ABOUTME: Identity resolver turning bearer tokens into active user accounts
// ABOUTME: Distinguishes bad tokens from vanished or deactivated accounts

package auth

import (
	"context"
	"errors"

	"github.com/cortexui/cortex-api/internal/store"
)

// Client-facing messages for mid-session authentication failures.
const (
	MsgTokenInvalid = "Token is invalid."
	MsgUserGone     = "User not found or not active anymore."
)

// UserGetter is the slice of the user store the resolver needs.
type UserGetter interface {
	GetUser(ctx context.Context, uid string) (*store.User, error)
}

// Resolver resolves a bearer token to the account it belongs to.
type Resolver struct {
	tokens *TokenService
	users  UserGetter
}

// NewResolver creates a resolver over the given token service and user store.
func NewResolver(tokens *TokenService, users UserGetter) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve validates the token and loads the account it names. The account
// must still exist and be active; a valid token for a deactivated account
// is refused. Failures are *Error values carrying the client message.
func (r *Resolver) Resolve(ctx context.Context, token string) (*store.User, error) {
	subjectID, err := r.tokens.Validate(token)
	if err != nil {
		return nil, Unauthorized(MsgTokenInvalid)
	}

	user, err := r.users.GetUser(ctx, subjectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, Unauthorized(MsgUserGone)
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, Unauthorized(MsgUserGone)
	}

	return user, nil
}
