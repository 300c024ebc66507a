package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is the authenticated caller's role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether r is a role the system knows.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// Actor is the authenticated caller descriptor handed to the domain
// services. How it was derived (JWT, dev stub) is the middleware's
// concern; the services only ever see this value.
type Actor struct {
	Role Role
	ID   uuid.UUID
}

type contextKey string

const actorKey contextKey = "actor"

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFromContext retrieves the actor set by the auth middleware.
// The second return is false when the request was not authenticated.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}
