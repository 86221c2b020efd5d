// Package authz holds the single ownership/role capability check used by
// every service that mutates user-owned resources. Route-level role gates
// live in the middleware package; this answers the finer question "may this
// user touch this particular row".
package authz

import "photoshare/internal/models"

// Action is what the caller wants to do with a resource.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of row being acted on.
type Resource string

const (
	ResourceImage   Resource = "image"
	ResourceComment Resource = "comment"
)

// Can reports whether the user may perform the action on a resource owned
// by ownerID. Admins may do anything. Images belong to their owner alone.
// Comments may be updated by their author or a moderator, and deleted only
// by moderators.
func Can(user *models.User, action Action, resource Resource, ownerID uint) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	switch resource {
	case ResourceImage:
		return user.ID == ownerID
	case ResourceComment:
		if user.Role == models.RoleModerator {
			return true
		}
		return action == ActionUpdate && user.ID == ownerID
	default:
		return false
	}
}
