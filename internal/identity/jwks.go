package identity

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// ErrProviderUnavailable is returned when the identity provider cannot be reached.
var ErrProviderUnavailable = errors.New("identity provider unavailable")

// ErrUnknownKey is returned when no published signing key matches the token's key id.
var ErrUnknownKey = errors.New("no signing key found for token")

// JWKSURL returns the Cognito JWKS endpoint for a user pool.
func JWKSURL(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", region, userPoolID)
}

// Issuer returns the token issuer for a user pool.
func Issuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

// KeyCache holds the provider-published signing keys, refreshed lazily when
// older than the TTL. It is the only shared mutable state in the process; a
// refresh race may cause two concurrent fetches producing equivalent results.
// The clock and HTTP client are injectable so tests can control staleness.
type KeyCache struct {
	url    string
	ttl    time.Duration
	client *http.Client
	now    func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewKeyCache creates a KeyCache for the given JWKS URL. A nil client falls
// back to a 10s-timeout default; a nil now falls back to time.Now.
func NewKeyCache(url string, ttl time.Duration, client *http.Client, now func() time.Time) *KeyCache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if now == nil {
		now = time.Now
	}
	return &KeyCache{
		url:    url,
		ttl:    ttl,
		client: client,
		now:    now,
	}
}

// Key returns the RSA public key matching the given key id, fetching the key
// set if the cache is empty or stale. A fresh cache is never invalidated
// early: a kid missing from it fails with ErrUnknownKey rather than forcing
// a refetch.
func (c *KeyCache) Key(kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	if c.fresh() {
		key, ok := c.keys[kid]
		c.mu.RUnlock()
		if !ok {
			return nil, ErrUnknownKey
		}
		return key, nil
	}
	c.mu.RUnlock()

	keys, err := c.fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.keys = keys
	c.fetchedAt = c.now()
	c.mu.Unlock()

	key, ok := keys[kid]
	if !ok {
		return nil, ErrUnknownKey
	}
	return key, nil
}

// fresh reports whether the cached key set is within its TTL. Callers must
// hold at least a read lock.
func (c *KeyCache) fresh() bool {
	return c.keys != nil && c.now().Sub(c.fetchedAt) < c.ttl
}

// fetch retrieves and parses the JWKS document.
func (c *KeyCache) fetch() (map[string]*rsa.PublicKey, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching JWKS: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: JWKS endpoint returned status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding JWKS: %v", ErrProviderUnavailable, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := parseRSAKey(k)
		if err != nil {
			return nil, fmt.Errorf("parsing JWK %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}

	return keys, nil
}

// parseRSAKey converts a JWK's modulus and exponent into an rsa.PublicKey.
func parseRSAKey(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e == 0 {
		return nil, errors.New("zero exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
