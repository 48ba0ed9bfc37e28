package registry

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"

	"github.com/landchain-labs/registry-gateway/internal/chain"
	svcerrors "github.com/landchain-labs/registry-gateway/internal/errors"
)

const testContractHash = "0x17b45f1d8a8d4c17f1e1a4b9639e31bdf7aee1ad"

// fakeNode serves invokefunction with per-method canned results.
type fakeNode struct {
	t       *testing.T
	results map[string]interface{}
	calls   map[string]int
}

func newFakeNode(t *testing.T) (*fakeNode, *httptest.Server) {
	node := &fakeNode{t: t, results: map[string]interface{}{}, calls: map[string]int{}}
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)
	return node, server
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req chain.RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		n.t.Fatalf("decode request: %v", err)
	}

	switch req.Method {
	case "getblockcount":
		n.calls["getblockcount"]++
		writeResult(w, 100)
	case "invokefunction":
		method := req.Params[1].(string)
		n.calls[method]++
		result, ok := n.results[method]
		if !ok {
			n.t.Fatalf("unexpected contract method %q", method)
		}
		writeResult(w, result)
	default:
		n.t.Fatalf("unexpected RPC method %q", req.Method)
	}
}

func writeResult(w http.ResponseWriter, result interface{}) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0", "id": 1, "result": result,
	})
}

func haltResult(stack ...map[string]interface{}) map[string]interface{} {
	items := make([]interface{}, 0, len(stack))
	for _, item := range stack {
		items = append(items, item)
	}
	return map[string]interface{}{"state": "HALT", "gasconsumed": "202000", "stack": items}
}

func byteStringItem(s string) map[string]interface{} {
	return map[string]interface{}{"type": "ByteString", "value": hex.EncodeToString([]byte(s))}
}

func integerItem(value string) map[string]interface{} {
	return map[string]interface{}{"type": "Integer", "value": value}
}

func newTestContract(t *testing.T, serverURL string, signer *Signer) *Contract {
	client, err := chain.NewClient(chain.Config{RPCURL: serverURL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return NewContract(client, testContractHash, signer)
}

func newTestKey(t *testing.T) *keys.PrivateKey {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return priv
}

func TestLandInfo(t *testing.T) {
	node, server := newFakeNode(t)
	node.results["getLandInfo"] = haltResult(map[string]interface{}{
		"type": "Struct",
		"value": []interface{}{
			byteStringItem("Block A1"),
			byteStringItem("Parcel P1"),
			integerItem("1000"),
		},
	})

	contract := newTestContract(t, server.URL, nil)
	info, err := contract.LandInfo(context.Background(), big.NewInt(1))
	if err != nil {
		t.Fatalf("land info: %v", err)
	}
	if info.BlockInfo != "Block A1" || info.ParcelInfo != "Parcel P1" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.TotalSupply.String() != "1000" {
		t.Fatalf("expected supply 1000, got %s", info.TotalSupply)
	}
}

func TestOwnerOf(t *testing.T) {
	node, server := newFakeNode(t)
	node.results["ownerOf"] = haltResult(map[string]interface{}{
		"type": "ByteString", "value": "0102030405060708090a0b0c0d0e0f1011121314",
	})

	contract := newTestContract(t, server.URL, nil)
	owner, err := contract.OwnerOf(context.Background(), big.NewInt(1))
	if err != nil {
		t.Fatalf("owner of: %v", err)
	}
	if owner != "0x14131211100f0e0d0c0b0a090807060504030201" {
		t.Fatalf("unexpected owner %s", owner)
	}
}

func TestParcelsOf(t *testing.T) {
	node, server := newFakeNode(t)
	node.results["parcelsOf"] = haltResult(map[string]interface{}{
		"type": "Array",
		"value": []interface{}{
			integerItem("1"),
			integerItem("123456789012345678901234567890"),
		},
	})

	contract := newTestContract(t, server.URL, nil)
	owner := newTestKey(t).Address()

	tokens, err := contract.ParcelsOf(context.Background(), owner)
	if err != nil {
		t.Fatalf("parcels of: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[1].String() != "123456789012345678901234567890" {
		t.Fatalf("wide token ID lost precision: %s", tokens[1])
	}
}

func TestParcelsOfRejectsBadAddress(t *testing.T) {
	_, server := newFakeNode(t)
	contract := newTestContract(t, server.URL, nil)

	if _, err := contract.ParcelsOf(context.Background(), "not-an-address"); err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestFaultSurfacesExceptionVerbatim(t *testing.T) {
	node, server := newFakeNode(t)
	node.results["getLandInfo"] = map[string]interface{}{
		"state":     "FAULT",
		"exception": "execution reverted: token does not exist",
		"stack":     []interface{}{},
	}

	contract := newTestContract(t, server.URL, nil)
	_, err := contract.LandInfo(context.Background(), big.NewInt(99))
	if err == nil {
		t.Fatal("expected fault error")
	}

	var svc *svcerrors.ServiceError
	if !errors.As(err, &svc) {
		t.Fatalf("expected ServiceError, got %T", err)
	}
	if svc.Code != svcerrors.CodeOperation {
		t.Fatalf("expected operation error, got %s", svc.Code)
	}
	if svc.Details != "execution reverted: token does not exist" {
		t.Fatalf("exception not carried verbatim: %q", svc.Details)
	}
}

func TestWriteRequiresSigner(t *testing.T) {
	_, server := newFakeNode(t)
	contract := newTestContract(t, server.URL, nil)
	owner := newTestKey(t).Address()

	if _, err := contract.RegisterLand(context.Background(), "Block A1", "Parcel P1", owner); err == nil {
		t.Fatal("expected error without signer")
	}
}

func TestRegisterLand(t *testing.T) {
	node, server := newFakeNode(t)
	node.results["registerLand"] = map[string]interface{}{
		"state": "HALT", "stack": []interface{}{}, "tx": "0xfeedbeef",
	}

	signer, err := NewSignerFromWIF(newTestKey(t).WIF())
	if err != nil {
		t.Fatalf("signer from WIF: %v", err)
	}

	contract := newTestContract(t, server.URL, signer)
	owner := newTestKey(t).Address()

	tx, err := contract.RegisterLand(context.Background(), "Block A1", "Parcel P1", owner)
	if err != nil {
		t.Fatalf("register land: %v", err)
	}
	if tx != "0xfeedbeef" {
		t.Fatalf("unexpected tx %s", tx)
	}
	if node.calls["registerLand"] != 1 {
		t.Fatalf("expected one invocation, got %d", node.calls["registerLand"])
	}
}
