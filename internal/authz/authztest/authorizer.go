// Package authztest provides a fixed authorizer for service tests.
package authztest

import (
	"context"

	"github.com/fkhayef/membership/internal/apperr"
	"github.com/fkhayef/membership/internal/authz"
)

// Authorizer grants a fixed set of actions to everyone
type Authorizer struct {
	allowed map[authz.Action]bool

	// Checks records every action asked for, in order
	Checks []authz.Action
}

var _ authz.Authorizer = (*Authorizer)(nil)

// Allow returns an authorizer granting actions
func Allow(actions ...authz.Action) *Authorizer {
	a := &Authorizer{allowed: make(map[authz.Action]bool)}
	for _, action := range actions {
		a.allowed[action] = true
	}
	return a
}

// Grant adds actions
func (a *Authorizer) Grant(actions ...authz.Action) {
	for _, action := range actions {
		a.allowed[action] = true
	}
}

// Can reports whether action was granted
func (a *Authorizer) Can(_ context.Context, _ int64, action authz.Action, _ authz.Target) (bool, error) {
	a.Checks = append(a.Checks, action)
	return a.allowed[action], nil
}

// Authorize fails with a forbidden error for actions not granted
func (a *Authorizer) Authorize(ctx context.Context, personID int64, action authz.Action, target authz.Target) error {
	ok, _ := a.Can(ctx, personID, action, target)
	if !ok {
		return apperr.Forbidden("not allowed to " + string(action))
	}
	return nil
}
