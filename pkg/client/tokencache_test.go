package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	mu       sync.Mutex
	identity string
	calls    int32
	err      error
	block    chan struct{}
}

func (f *fakeIssuer) CurrentIdentity() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identity
}

func (f *fakeIssuer) setIdentity(id string) {
	f.mu.Lock()
	f.identity = id
	f.mu.Unlock()
}

func (f *fakeIssuer) IssueToken(ctx context.Context, identity string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	n := atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("token-%s-%d", identity, n), nil
}

func TestGetTokenCachesUntilExpiry(t *testing.T) {
	issuer := &fakeIssuer{identity: "alice"}
	now := time.Now()
	clock := func() time.Time { return now }
	cache := NewTokenCache(issuer, WithClock(func() time.Time { return clock() }))

	first := cache.GetToken(context.Background())
	require.Equal(t, "token-alice-1", first)
	assert.Equal(t, first, cache.GetToken(context.Background()))
	assert.EqualValues(t, 1, atomic.LoadInt32(&issuer.calls))

	// Past the TTL the next call refreshes through the issuer.
	clock = func() time.Time { return now.Add(DefaultTokenTTL + time.Second) }
	assert.Equal(t, "token-alice-2", cache.GetToken(context.Background()))
}

func TestGetTokenSharesInflightFetch(t *testing.T) {
	issuer := &fakeIssuer{identity: "alice", block: make(chan struct{})}
	cache := NewTokenCache(issuer)

	const workers = 8
	results := make(chan string, workers)
	for i := 0; i < workers; i++ {
		go func() { results <- cache.GetToken(context.Background()) }()
	}

	// Give every goroutine time to either start the fetch or queue
	// behind it, then release the issuer.
	time.Sleep(20 * time.Millisecond)
	close(issuer.block)

	for i := 0; i < workers; i++ {
		assert.Equal(t, "token-alice-1", <-results)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&issuer.calls))
}

func TestGetTokenIssuerFailure(t *testing.T) {
	issuer := &fakeIssuer{identity: "alice", err: errors.New("issuer down")}
	cache := NewTokenCache(issuer)

	assert.Equal(t, "", cache.GetToken(context.Background()))

	// Failure is not cached: a recovered issuer serves the next call.
	issuer.err = nil
	assert.Equal(t, "token-alice-2", cache.GetToken(context.Background()))
}

func TestGetTokenSignedOut(t *testing.T) {
	issuer := &fakeIssuer{identity: ""}
	cache := NewTokenCache(issuer)

	assert.Equal(t, "", cache.GetToken(context.Background()))
	assert.EqualValues(t, 0, atomic.LoadInt32(&issuer.calls))
}

func TestIdentityChangedEvictsOtherAccounts(t *testing.T) {
	issuer := &fakeIssuer{identity: "alice"}
	cache := NewTokenCache(issuer)

	aliceToken := cache.GetToken(context.Background())
	require.Equal(t, "token-alice-1", aliceToken)

	issuer.setIdentity("bob")
	cache.IdentityChanged("bob")

	assert.Equal(t, "token-bob-2", cache.GetToken(context.Background()))

	// Switching back to alice must not resurrect her old token.
	issuer.setIdentity("alice")
	cache.IdentityChanged("alice")
	assert.Equal(t, "token-alice-3", cache.GetToken(context.Background()))
}

func TestIdentityChangedSignOutClearsAll(t *testing.T) {
	issuer := &fakeIssuer{identity: "alice"}
	cache := NewTokenCache(issuer)

	require.Equal(t, "token-alice-1", cache.GetToken(context.Background()))

	issuer.setIdentity("")
	cache.IdentityChanged("")

	issuer.setIdentity("alice")
	assert.Equal(t, "token-alice-2", cache.GetToken(context.Background()))
}

func TestInvalidateForcesRefresh(t *testing.T) {
	issuer := &fakeIssuer{identity: "alice"}
	cache := NewTokenCache(issuer)

	require.Equal(t, "token-alice-1", cache.GetToken(context.Background()))
	cache.Invalidate("alice")
	assert.Equal(t, "token-alice-2", cache.GetToken(context.Background()))
}
