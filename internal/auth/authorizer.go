package auth

import (
	"context"
)

// TenantInfo contains information about an authenticated caller. The tenant
// id is resolved from the validated token, never from client-supplied input;
// every store call is scoped by it.
type TenantInfo struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
}

// Authorizer validates bearer tokens and checks permissions in one call.
type Authorizer interface {
	// Authorize validates the token and checks that the caller may perform
	// the named operation on the resource. Returns TenantInfo if authorized.
	Authorize(ctx context.Context, token, operation, resource string) (*TenantInfo, error)
}
