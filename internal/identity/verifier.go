package identity

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// ErrTokenExpired is returned when a token's expiry has passed.
var ErrTokenExpired = errors.New("token has expired")

// ErrTokenInvalid is returned for any other verification failure (bad
// signature, wrong audience or issuer, malformed token).
var ErrTokenInvalid = errors.New("token verification failed")

// Claims are the token claims the application cares about. Cognito access
// tokens carry the app client id in client_id rather than aud.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	TokenUse string `json:"token_use"`
}

// Valid checks the time-based claims. Expiry is mandatory; not-before is
// deliberately not checked.
func (c *Claims) Valid() error {
	now := jwt.TimeFunc()
	if !c.VerifyExpiresAt(now, true) {
		return jwt.NewValidationError("token is expired", jwt.ValidationErrorExpired)
	}
	return nil
}

// KeyProvider resolves a token header key id to an RSA public key.
type KeyProvider interface {
	Key(kid string) (*rsa.PublicKey, error)
}

// Verifier validates bearer tokens against the provider's published keys.
type Verifier struct {
	keys     KeyProvider
	audience string
	issuer   string
}

// NewVerifier creates a Verifier. audience is the app client id; issuer is
// the user pool issuer URL.
func NewVerifier(keys KeyProvider, audience, issuer string) *Verifier {
	return &Verifier{
		keys:     keys,
		audience: audience,
		issuer:   issuer,
	}
}

// Verify parses and verifies a raw token, returning its claims.
// Failure modes are distinguished: ErrTokenExpired for an expired token,
// ErrProviderUnavailable when the key set cannot be fetched, ErrTokenInvalid
// for anything else.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			if ve.Errors&jwt.ValidationErrorExpired != 0 {
				return nil, ErrTokenExpired
			}
			if ve.Inner != nil && errors.Is(ve.Inner, ErrProviderUnavailable) {
				return nil, ve.Inner
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !v.verifyAudience(claims) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrTokenInvalid)
	}
	if !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrTokenInvalid)
	}

	return claims, nil
}

// keyFunc extracts the unverified kid from the token header and resolves it
// via the key provider.
func (v *Verifier) keyFunc(t *jwt.Token) (interface{}, error) {
	kid, ok := t.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, errors.New("token missing kid in header")
	}
	return v.keys.Key(kid)
}

// verifyAudience matches the app client id against aud when present, falling
// back to the client_id claim on access tokens.
func (v *Verifier) verifyAudience(c *Claims) bool {
	if len(c.Audience) > 0 {
		return c.VerifyAudience(v.audience, true)
	}
	return c.ClientID == v.audience
}

// DecodeIDToken extracts claims from an ID token without verifying the
// signature. The token was just received over TLS from the provider in the
// same exchange that issued it.
func DecodeIDToken(idToken string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("decoding ID token: %w", err)
	}
	return claims, nil
}
