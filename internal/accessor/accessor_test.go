package accessor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/landchain-labs/registry-gateway/internal/config"
	svcerrors "github.com/landchain-labs/registry-gateway/internal/errors"
)

func newFakeNode(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0", "id": 1, "result": 100,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(rpcURL string) *config.Config {
	return &config.Config{
		RPCURL:       rpcURL,
		ContractHash: "0x17b45f1d8a8d4c17f1e1a4b9639e31bdf7aee1ad",
	}
}

func TestGetBeforeInitialize(t *testing.T) {
	acc := New(testConfig("http://unused.invalid"))

	_, err := acc.Get()
	require.Error(t, err)
	require.True(t, svcerrors.IsNotInitialized(err))
}

func TestHandleIdentityStableAcrossGets(t *testing.T) {
	server := newFakeNode(t)
	acc := New(testConfig(server.URL))

	handle, err := acc.Initialize(context.Background())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := acc.Get()
		require.NoError(t, err)
		require.Same(t, handle, got)
	}

	replaced, err := acc.Initialize(context.Background())
	require.NoError(t, err)
	require.NotSame(t, handle, replaced)

	got, err := acc.Get()
	require.NoError(t, err)
	require.Same(t, replaced, got)
}

func TestAcquireInitializesOnDemand(t *testing.T) {
	server := newFakeNode(t)
	acc := New(testConfig(server.URL))

	handle, err := acc.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, handle)

	again, err := acc.Acquire(context.Background())
	require.NoError(t, err)
	require.Same(t, handle, again)
}

func TestInvalidateForcesReinit(t *testing.T) {
	server := newFakeNode(t)
	acc := New(testConfig(server.URL))

	handle, err := acc.Acquire(context.Background())
	require.NoError(t, err)

	acc.Invalidate()

	_, err = acc.Get()
	require.True(t, svcerrors.IsNotInitialized(err))

	fresh, err := acc.Acquire(context.Background())
	require.NoError(t, err)
	require.NotSame(t, handle, fresh)
}

func TestInitializeMissingConfig(t *testing.T) {
	acc := New(&config.Config{})

	_, err := acc.Initialize(context.Background())
	require.Error(t, err)

	var svc *svcerrors.ServiceError
	require.ErrorAs(t, err, &svc)
	require.Equal(t, svcerrors.CodeConfiguration, svc.Code)
}

func TestInitializeUnreachableNode(t *testing.T) {
	server := newFakeNode(t)
	url := server.URL
	server.Close()

	acc := New(testConfig(url))

	_, err := acc.Initialize(context.Background())
	require.Error(t, err)

	var svc *svcerrors.ServiceError
	require.ErrorAs(t, err, &svc)
	require.Equal(t, svcerrors.CodeConnection, svc.Code)
}

func TestInitializeBadSignerWIF(t *testing.T) {
	server := newFakeNode(t)
	cfg := testConfig(server.URL)
	cfg.SignerWIF = "not-a-wif"

	acc := New(cfg)

	_, err := acc.Initialize(context.Background())
	require.Error(t, err)

	var svc *svcerrors.ServiceError
	require.ErrorAs(t, err, &svc)
	require.Equal(t, svcerrors.CodeConfiguration, svc.Code)
}
