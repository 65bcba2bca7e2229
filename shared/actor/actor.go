// Package actor carries the authenticated principal through service calls.
package actor

import (
	"context"
	"hotel/shared/constant"
	"slices"
)

// Actor is the user on whose behalf an operation runs.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// System is the actor used by internal callers and scheduled jobs.
func System() Actor {
	return Actor{ID: constant.ContextSystem, Name: "System", Role: constant.RoleAdmin}
}

// FromContext builds the actor from the values stored by the auth middleware. Requests
// authenticated with the internal API key carry no user and run as System.
func FromContext(ctx context.Context) Actor {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if id == "" {
		return System()
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	name, _ := ctx.Value(constant.ContextKeyUserName).(string)

	if name == "" {
		name, _ = ctx.Value(constant.ContextKeyUserEmail).(string)
	}

	return Actor{ID: id, Name: name, Role: role}
}

func (a Actor) HasRole(roles ...string) bool {
	return slices.Contains(roles, a.Role)
}

// IsStaff reports whether the actor is hotel personnel rather than a guest.
func (a Actor) IsStaff() bool {
	return a.Role != "" && a.Role != constant.RoleGuest
}

// Label is the value written to created_by/modified_by columns.
func (a Actor) Label() string {
	if a.Name != "" {
		return a.Name
	}

	return a.ID
}
