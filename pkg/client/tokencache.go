package client

import (
	"context"
	"sync"
	"time"
)

// DefaultTokenTTL is deliberately shorter than the server's session
// lifetime so a cached token always refreshes before the server would
// reject it.
const DefaultTokenTTL = 50 * time.Minute

// TokenIssuer is the identity side of the token contract.
// CurrentIdentity returns "" when no one is signed in.
type TokenIssuer interface {
	CurrentIdentity() string
	IssueToken(ctx context.Context, identity string) (string, error)
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

type tokenFetch struct {
	done  chan struct{}
	token string
}

// TokenCache holds short-lived access tokens keyed by identity.
// Concurrent GetToken calls for the same identity share one issuer
// request instead of issuing redundant fetches. The cache never returns
// an error: an issuer failure yields "" and the caller proceeds
// unauthenticated, producing a uniform auth-failure path server-side.
type TokenCache struct {
	issuer TokenIssuer
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	tokens   map[string]cachedToken
	inflight map[string]*tokenFetch
}

// TokenCacheOption customizes a TokenCache.
type TokenCacheOption func(*TokenCache)

// WithTokenTTL overrides the cache lifetime for issued tokens.
func WithTokenTTL(ttl time.Duration) TokenCacheOption {
	return func(c *TokenCache) { c.ttl = ttl }
}

// WithClock injects the clock, for tests.
func WithClock(now func() time.Time) TokenCacheOption {
	return func(c *TokenCache) { c.now = now }
}

func NewTokenCache(issuer TokenIssuer, opts ...TokenCacheOption) *TokenCache {
	c := &TokenCache{
		issuer:   issuer,
		ttl:      DefaultTokenTTL,
		now:      time.Now,
		tokens:   make(map[string]cachedToken),
		inflight: make(map[string]*tokenFetch),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetToken returns a live token for the current identity, refreshing it
// through the issuer when the cached one has expired. Returns "" when no
// one is signed in or the issuer fails.
func (c *TokenCache) GetToken(ctx context.Context) string {
	identity := c.issuer.CurrentIdentity()
	if identity == "" {
		c.Clear()
		return ""
	}

	c.mu.Lock()
	if entry, ok := c.tokens[identity]; ok && entry.expiresAt.After(c.now()) {
		c.mu.Unlock()
		return entry.token
	}
	if fetch, ok := c.inflight[identity]; ok {
		c.mu.Unlock()
		<-fetch.done
		return fetch.token
	}
	fetch := &tokenFetch{done: make(chan struct{})}
	c.inflight[identity] = fetch
	c.mu.Unlock()

	token, err := c.issuer.IssueToken(ctx, identity)

	c.mu.Lock()
	delete(c.inflight, identity)
	if err != nil {
		delete(c.tokens, identity)
		token = ""
	} else {
		c.tokens[identity] = cachedToken{token: token, expiresAt: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()

	fetch.token = token
	close(fetch.done)
	return token
}

// Invalidate drops the cached token for one identity.
func (c *TokenCache) Invalidate(identity string) {
	c.mu.Lock()
	delete(c.tokens, identity)
	c.mu.Unlock()
}

// IdentityChanged evicts cached tokens that no longer belong to the
// signed-in identity. Called on sign-in/sign-out transitions so a token
// can never leak across accounts within the same process. An empty
// current identity clears everything.
func (c *TokenCache) IdentityChanged(current string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current == "" {
		c.tokens = make(map[string]cachedToken)
		return
	}
	for identity := range c.tokens {
		if identity != current {
			delete(c.tokens, identity)
		}
	}
}

// Clear drops every cached token.
func (c *TokenCache) Clear() {
	c.mu.Lock()
	c.tokens = make(map[string]cachedToken)
	c.mu.Unlock()
}
