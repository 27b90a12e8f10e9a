package auth

import (
	"context"
	"fmt"
)

// Resource types with built-in ownership checks.
const (
	ResourceSession = "session"
	ResourceClass   = "class"
)

// OwnershipCheck reports whether an instructor owns one resource.
// A nil error with false means the caller is authenticated but not the
// owner; implementations return their package's not-found errors when
// the resource itself is missing.
type OwnershipCheck func(ctx context.Context, instructorID, resourceID string) (bool, error)

// OwnershipRegistry dispatches ownership checks by resource type. New
// resource types register a checker instead of extending a conditional.
type OwnershipRegistry struct {
	checks map[string]OwnershipCheck
}

// NewOwnershipRegistry creates an empty registry.
func NewOwnershipRegistry() *OwnershipRegistry {
	return &OwnershipRegistry{checks: make(map[string]OwnershipCheck)}
}

// Register adds a checker for a resource type, replacing any previous one.
func (r *OwnershipRegistry) Register(resourceType string, check OwnershipCheck) {
	r.checks[resourceType] = check
}

// Check runs the registered checker for a resource type.
func (r *OwnershipRegistry) Check(ctx context.Context, resourceType, instructorID, resourceID string) (bool, error) {
	check, ok := r.checks[resourceType]
	if !ok {
		return false, fmt.Errorf("no ownership check registered for resource type %q", resourceType)
	}
	return check(ctx, instructorID, resourceID)
}
