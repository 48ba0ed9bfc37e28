package chain

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// JSON-RPC Wire Types
// =============================================================================

// RPCRequest is a JSON-RPC 2.0 request.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// RPCResponse is a JSON-RPC 2.0 response.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// =============================================================================
// Invocation Types
// =============================================================================

// StackItem is a NeoVM stack item. Value stays raw until a typed parser
// consumes it.
type StackItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// InvokeResult is the result of an invokefunction call.
type InvokeResult struct {
	Script      string      `json:"script"`
	State       string      `json:"state"` // HALT or FAULT
	GasConsumed string      `json:"gasconsumed"`
	Exception   string      `json:"exception,omitempty"`
	Stack       []StackItem `json:"stack"`
	Tx          string      `json:"tx,omitempty"`
}

// ContractParam is a typed contract invocation parameter.
type ContractParam struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// Signer attaches a witness scope to an invocation.
type Signer struct {
	Account string `json:"account"`
	Scopes  string `json:"scopes"`
}

// NewIntegerParam creates an Integer parameter. The value is rendered as a
// decimal string so width is never lost on the wire.
func NewIntegerParam(value fmt.Stringer) ContractParam {
	return ContractParam{Type: "Integer", Value: value.String()}
}

// NewStringParam creates a String parameter.
func NewStringParam(value string) ContractParam {
	return ContractParam{Type: "String", Value: value}
}

// NewHash160Param creates a Hash160 parameter from a 0x-prefixed script hash.
func NewHash160Param(scriptHash string) ContractParam {
	return ContractParam{Type: "Hash160", Value: scriptHash}
}
