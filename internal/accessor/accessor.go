// Package accessor owns the process-wide land registry contract handle.
//
// The handle is created lazily: callers go through Acquire, which returns the
// current handle or performs exactly one initialize-and-retry when none is
// live. Replacing the handle is a single assignment under a mutex held only
// for the swap, never across the external call.
package accessor

import (
	"context"
	"sync"

	"github.com/landchain-labs/registry-gateway/internal/chain"
	"github.com/landchain-labs/registry-gateway/internal/config"
	svcerrors "github.com/landchain-labs/registry-gateway/internal/errors"
	"github.com/landchain-labs/registry-gateway/internal/registry"
)

// Accessor provides initialize/get access to the singleton contract handle.
// It is injected into handlers rather than living in a package-level variable
// so lifecycle and test substitution stay explicit.
type Accessor struct {
	cfg *config.Config

	mu     sync.RWMutex
	handle *registry.Contract
}

// New creates an accessor for the given configuration. No connection is made
// until Initialize or Acquire is called.
func New(cfg *config.Config) *Accessor {
	return &Accessor{cfg: cfg}
}

// Initialize constructs a fresh handle from configuration and installs it as
// the singleton, replacing any previous handle. Calling it twice is allowed.
func (a *Accessor) Initialize(ctx context.Context) (*registry.Contract, error) {
	if a.cfg == nil {
		return nil, svcerrors.Configuration("accessor configuration missing")
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := chain.NewClient(chain.Config{
		RPCURL:  a.cfg.RPCURL,
		Timeout: a.cfg.RPCTimeout,
	})
	if err != nil {
		return nil, svcerrors.Configuration(err.Error())
	}

	var signer *registry.Signer
	if a.cfg.SignerWIF != "" {
		signer, err = registry.NewSignerFromWIF(a.cfg.SignerWIF)
		if err != nil {
			return nil, svcerrors.Configuration("invalid SIGNER_WIF: " + err.Error())
		}
	}

	handle := registry.NewContract(client, a.cfg.ContractHash, signer)
	if err := handle.Ping(ctx); err != nil {
		return nil, svcerrors.Connection("registry node unreachable", err)
	}

	a.mu.Lock()
	a.handle = handle
	a.mu.Unlock()

	return handle, nil
}

// Get returns the current handle, or ErrNotInitialized when none is live.
func (a *Accessor) Get() (*registry.Contract, error) {
	a.mu.RLock()
	handle := a.handle
	a.mu.RUnlock()

	if handle == nil {
		return nil, svcerrors.ErrNotInitialized
	}
	return handle, nil
}

// Invalidate discards the current handle so the next Get fails and forces
// re-initialization. Used when a caller observes the handle is unusable.
func (a *Accessor) Invalidate() {
	a.mu.Lock()
	a.handle = nil
	a.mu.Unlock()
}

// Acquire implements the two-step lazy-init policy: try Get; on
// ErrNotInitialized run Initialize once and return its result. Any other
// failure propagates without further retries.
func (a *Accessor) Acquire(ctx context.Context) (*registry.Contract, error) {
	handle, err := a.Get()
	if err == nil {
		return handle, nil
	}
	if !svcerrors.IsNotInitialized(err) {
		return nil, err
	}
	return a.Initialize(ctx)
}
