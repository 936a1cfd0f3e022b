package identity

import (
	"context"
	"fmt"
)

// TokenSet holds the credentials issued by the identity provider for one
// authentication or refresh exchange. Refresh responses may omit IDToken and
// RefreshToken.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int32 // seconds
}

// Provider is the external identity service the application delegates
// credential handling to.
type Provider interface {
	SignUp(ctx context.Context, email, password string) error
	ConfirmSignUp(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
}

// ProviderError carries the provider's own error code and message so route
// handlers can pass them through to the caller.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error (%s): %s", e.Code, e.Message)
}
