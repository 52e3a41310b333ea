package auth

import (
	"context"
	"fmt"
)

const (
	// LocalDevToken is the hardcoded bearer token for local development only.
	LocalDevToken = "tok_local_mealplan_dev"

	// LocalDevTenantID is the tenant resolved from LocalDevToken.
	LocalDevTenantID = "mealplan-dev-tenant"
)

// MockAuthorizer provides a simple authorizer for local development. It only
// recognizes the hardcoded LocalDevToken and resolves it to a fixed tenant.
type MockAuthorizer struct{}

func NewMockAuthorizer() *MockAuthorizer { return &MockAuthorizer{} }

// Authorize validates the hardcoded local development token.
func (m *MockAuthorizer) Authorize(ctx context.Context, token, operation, resource string) (*TenantInfo, error) {
	if token != LocalDevToken {
		return nil, fmt.Errorf("%w: unrecognized local development token", ErrInvalidToken)
	}
	return &TenantInfo{
		TenantID: LocalDevTenantID,
		UserID:   "mealplan-dev",
		Email:    "dev@mealplan.local",
	}, nil
}
