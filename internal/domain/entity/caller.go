package entity

import "github.com/google/uuid"

// CallerContext is the already-authenticated identity an operation runs on behalf of.
// It is always passed explicitly; nothing in the core reads it from ambient state.
type CallerContext struct {
	ID   uuid.UUID
	Role Role
}

func (c CallerContext) Is(role Role) bool {
	return c.Role == role
}

func (c CallerContext) IsAdmin() bool {
	return c.Role == RoleAdmin
}
