package registry

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// Signer holds the gateway's service account used to sign write invocations.
type Signer struct {
	account *wallet.Account
}

// NewSignerFromWIF creates a signer from a WIF-encoded private key.
func NewSignerFromWIF(wif string) (*Signer, error) {
	account, err := wallet.NewAccountFromWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("decode WIF: %w", err)
	}
	return &Signer{account: account}, nil
}

// Address returns the signer's Neo address.
func (s *Signer) Address() string {
	return s.account.Address
}

// ScriptHash returns the signer's script hash with a 0x prefix.
func (s *Signer) ScriptHash() string {
	return "0x" + s.account.ScriptHash().StringLE()
}

// AddressToScriptHash converts a Neo address to its 0x-prefixed script hash.
func AddressToScriptHash(addr string) (string, error) {
	hash, err := address.StringToUint160(addr)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return "0x" + hash.StringLE(), nil
}
