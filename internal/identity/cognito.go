package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// CognitoAPI is the subset of the Cognito client used by CognitoProvider.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cognito.SignUpInput, optFns ...func(*cognito.Options)) (*cognito.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognito.ConfirmSignUpInput, optFns ...func(*cognito.Options)) (*cognito.ConfirmSignUpOutput, error)
	AdminInitiateAuth(ctx context.Context, params *cognito.AdminInitiateAuthInput, optFns ...func(*cognito.Options)) (*cognito.AdminInitiateAuthOutput, error)
	InitiateAuth(ctx context.Context, params *cognito.InitiateAuthInput, optFns ...func(*cognito.Options)) (*cognito.InitiateAuthOutput, error)
}

// CognitoProvider implements Provider against an AWS Cognito user pool.
type CognitoProvider struct {
	client     CognitoAPI
	userPoolID string
	clientID   string
}

// NewCognitoProvider creates a CognitoProvider for the given user pool and
// app client.
func NewCognitoProvider(client CognitoAPI, userPoolID, clientID string) *CognitoProvider {
	return &CognitoProvider{
		client:     client,
		userPoolID: userPoolID,
		clientID:   clientID,
	}
}

// SignUp registers a new user; Cognito sends the confirmation email.
func (p *CognitoProvider) SignUp(ctx context.Context, email, password string) error {
	_, err := p.client.SignUp(ctx, &cognito.SignUpInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		return wrapProviderErr(err)
	}
	return nil
}

// ConfirmSignUp confirms a registration with the emailed verification code.
func (p *CognitoProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	_, err := p.client.ConfirmSignUp(ctx, &cognito.ConfirmSignUpInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		return wrapProviderErr(err)
	}
	return nil
}

// Login exchanges credentials for a token set using ADMIN_NO_SRP_AUTH.
func (p *CognitoProvider) Login(ctx context.Context, email, password string) (*TokenSet, error) {
	out, err := p.client.AdminInitiateAuth(ctx, &cognito.AdminInitiateAuthInput{
		AuthFlow:   types.AuthFlowTypeAdminNoSrpAuth,
		UserPoolId: aws.String(p.userPoolID),
		ClientId:   aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, wrapProviderErr(err)
	}

	return tokenSet(out.AuthenticationResult)
}

// Refresh exchanges a refresh token for a new access token. Cognito may or
// may not rotate the refresh token.
func (p *CognitoProvider) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	out, err := p.client.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeRefreshTokenAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
	})
	if err != nil {
		return nil, wrapProviderErr(err)
	}

	return tokenSet(out.AuthenticationResult)
}

// tokenSet converts a Cognito authentication result, rejecting responses
// without an access token.
func tokenSet(result *types.AuthenticationResultType) (*TokenSet, error) {
	if result == nil || aws.ToString(result.AccessToken) == "" {
		return nil, fmt.Errorf("%w: empty authentication result", ErrProviderUnavailable)
	}
	return &TokenSet{
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// wrapProviderErr maps an AWS API error to a ProviderError carrying the
// provider's code and message; transport-level failures map to
// ErrProviderUnavailable.
func wrapProviderErr(err error) error {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return &ProviderError{Code: ae.ErrorCode(), Message: ae.ErrorMessage()}
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

var _ Provider = (*CognitoProvider)(nil)
