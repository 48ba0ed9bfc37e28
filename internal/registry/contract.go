// Package registry binds the land registry smart contract.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/landchain-labs/registry-gateway/internal/chain"
	svcerrors "github.com/landchain-labs/registry-gateway/internal/errors"
)

// Contract provides typed access to the land registry contract. It is the
// process-wide handle owned by the accessor; all fields are read-only after
// construction, so concurrent use needs no locking.
type Contract struct {
	client       *chain.Client
	contractHash string
	signer       *Signer
}

// NewContract creates a contract binding. signer may be nil, in which case
// write operations are rejected.
func NewContract(client *chain.Client, contractHash string, signer *Signer) *Contract {
	return &Contract{
		client:       client,
		contractHash: contractHash,
		signer:       signer,
	}
}

// Hash returns the bound contract script hash.
func (c *Contract) Hash() string {
	return c.contractHash
}

// Ping probes the node the contract is bound to.
func (c *Contract) Ping(ctx context.Context) error {
	_, err := c.client.GetBlockCount(ctx)
	return err
}

// =============================================================================
// Types
// =============================================================================

// LandInfo is the contract's record for one parcel. TotalSupply rides along
// with every record so a single read covers the whole land-info response.
type LandInfo struct {
	BlockInfo   string
	ParcelInfo  string
	TotalSupply *big.Int
}

// =============================================================================
// Read Methods
// =============================================================================

// LandInfo returns the registered information for a token.
func (c *Contract) LandInfo(ctx context.Context, tokenID *big.Int) (*LandInfo, error) {
	params := []chain.ContractParam{chain.NewIntegerParam(tokenID)}
	result, err := c.invoke(ctx, "getLandInfo", params)
	if err != nil {
		return nil, err
	}
	return parseLandInfo(result.Stack[0])
}

// OwnerOf returns the owner script hash of a token.
func (c *Contract) OwnerOf(ctx context.Context, tokenID *big.Int) (string, error) {
	params := []chain.ContractParam{chain.NewIntegerParam(tokenID)}
	result, err := c.invoke(ctx, "ownerOf", params)
	if err != nil {
		return "", err
	}
	return chain.ParseHash160(result.Stack[0])
}

// TotalSupply returns the number of registered parcels.
func (c *Contract) TotalSupply(ctx context.Context) (*big.Int, error) {
	result, err := c.invoke(ctx, "totalSupply", nil)
	if err != nil {
		return nil, err
	}
	return chain.ParseInteger(result.Stack[0])
}

// ParcelsOf returns the token IDs held by an owner address.
func (c *Contract) ParcelsOf(ctx context.Context, owner string) ([]*big.Int, error) {
	ownerHash, err := AddressToScriptHash(owner)
	if err != nil {
		return nil, err
	}

	params := []chain.ContractParam{chain.NewHash160Param(ownerHash)}
	result, err := c.invoke(ctx, "parcelsOf", params)
	if err != nil {
		return nil, err
	}

	items, err := chain.ParseArray(result.Stack[0])
	if err != nil {
		return nil, fmt.Errorf("parse parcels: %w", err)
	}

	tokens := make([]*big.Int, 0, len(items))
	for i, item := range items {
		token, err := chain.ParseInteger(item)
		if err != nil {
			return nil, fmt.Errorf("parse parcel %d: %w", i, err)
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// IsRegistered reports whether a token exists in the registry.
func (c *Contract) IsRegistered(ctx context.Context, tokenID *big.Int) (bool, error) {
	params := []chain.ContractParam{chain.NewIntegerParam(tokenID)}
	result, err := c.invoke(ctx, "isRegistered", params)
	if err != nil {
		return false, err
	}
	return chain.ParseBoolean(result.Stack[0])
}

// =============================================================================
// Write Methods
// =============================================================================

// RegisterLand registers a new parcel for owner and returns the transaction
// hash. The invocation is signed with the gateway's service account; caller
// identity is not forwarded to the contract.
func (c *Contract) RegisterLand(ctx context.Context, blockInfo, parcelInfo, owner string) (string, error) {
	ownerHash, err := AddressToScriptHash(owner)
	if err != nil {
		return "", err
	}

	params := []chain.ContractParam{
		chain.NewStringParam(blockInfo),
		chain.NewStringParam(parcelInfo),
		chain.NewHash160Param(ownerHash),
	}
	result, err := c.invokeSigned(ctx, "registerLand", params)
	if err != nil {
		return "", err
	}
	return result.Tx, nil
}

// TransferLand transfers a parcel between addresses and returns the
// transaction hash.
func (c *Contract) TransferLand(ctx context.Context, tokenID *big.Int, from, to string) (string, error) {
	fromHash, err := AddressToScriptHash(from)
	if err != nil {
		return "", err
	}
	toHash, err := AddressToScriptHash(to)
	if err != nil {
		return "", err
	}

	params := []chain.ContractParam{
		chain.NewIntegerParam(tokenID),
		chain.NewHash160Param(fromHash),
		chain.NewHash160Param(toHash),
	}
	result, err := c.invokeSigned(ctx, "transferLand", params)
	if err != nil {
		return "", err
	}
	return result.Tx, nil
}

// =============================================================================
// Invocation Helpers
// =============================================================================

func (c *Contract) invoke(ctx context.Context, method string, params []chain.ContractParam) (*chain.InvokeResult, error) {
	result, err := c.client.InvokeFunction(ctx, c.contractHash, method, params)
	if err != nil {
		return nil, err
	}
	if err := checkState(method, result); err != nil {
		return nil, err
	}
	if len(result.Stack) == 0 {
		return nil, fmt.Errorf("%s returned no result", method)
	}
	return result, nil
}

func (c *Contract) invokeSigned(ctx context.Context, method string, params []chain.ContractParam) (*chain.InvokeResult, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("signer required for write operations")
	}

	signer := chain.Signer{Account: c.signer.ScriptHash(), Scopes: "CalledByEntry"}
	result, err := c.client.InvokeFunctionWithSigner(ctx, c.contractHash, method, params, signer)
	if err != nil {
		return nil, err
	}
	if err := checkState(method, result); err != nil {
		return nil, err
	}
	return result, nil
}

// checkState rejects FAULTed invocations. The VM exception text is carried
// verbatim so callers see the contract's own failure message.
func checkState(method string, result *chain.InvokeResult) error {
	if result.State != "HALT" {
		return svcerrors.Operation(method+" failed", errors.New(result.Exception))
	}
	return nil
}

// =============================================================================
// Parsers
// =============================================================================

func parseLandInfo(item chain.StackItem) (*LandInfo, error) {
	items, err := chain.ParseArray(item)
	if err != nil {
		return nil, err
	}
	if len(items) < 3 {
		return nil, fmt.Errorf("invalid land info: expected 3 items, got %d", len(items))
	}

	blockInfo, err := chain.ParseString(items[0])
	if err != nil {
		return nil, fmt.Errorf("parse blockInfo: %w", err)
	}
	parcelInfo, err := chain.ParseString(items[1])
	if err != nil {
		return nil, fmt.Errorf("parse parcelInfo: %w", err)
	}
	totalSupply, err := chain.ParseInteger(items[2])
	if err != nil {
		return nil, fmt.Errorf("parse totalSupply: %w", err)
	}

	return &LandInfo{
		BlockInfo:   blockInfo,
		ParcelInfo:  parcelInfo,
		TotalSupply: totalSupply,
	}, nil
}
