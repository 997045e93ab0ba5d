package auth

import (
	"context"

	"family-tasks-go/internal/domain/user"
)

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Resolver turns a bearer credential into the stored user it names.
type Resolver struct {
	tokens TokenVerifier
	users  UserLookup
}

func NewResolver(tokens TokenVerifier, users UserLookup) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

func (r *Resolver) Resolve(ctx context.Context, credential string) (*user.User, error) {
	if credential == "" {
		return nil, ErrInvalidCredential
	}
	userID, err := r.tokens.Verify(credential)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	return r.ResolveID(ctx, userID)
}

// ResolveID looks up a user by id without a credential. Used when
// authentication is disabled for local development.
func (r *Resolver) ResolveID(ctx context.Context, userID string) (*user.User, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnknownPrincipal
	}
	return u, nil
}
