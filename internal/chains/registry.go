package chains

import (
	"fmt"
	"strings"

	xerrors "OpenMCP-EVM/internal/errors"
)

// Registry is an immutable, ordered mapping from chain identifier to its
// configuration. Every registered chain has an RPC endpoint.
type Registry struct {
	order  []string
	chains map[string]ChainConfig
}

// New builds a registry from entries, keeping their order. Entries must be
// complete: duplicate ids, empty fields or negative decimals are rejected.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{
		order:  make([]string, 0, len(entries)),
		chains: make(map[string]ChainConfig, len(entries)),
	}
	for _, entry := range entries {
		if err := entry.validate(); err != nil {
			return nil, err
		}
		if !entry.HasRPC() {
			return nil, xerrors.New(xerrors.CodeInvalidArgument,
				fmt.Sprintf("chain %s: rpc cannot be empty", entry.ID),
				xerrors.WithMetadata("chain", entry.ID), xerrors.WithMetadata("field", "rpc"))
		}
		if _, dup := r.chains[entry.ID]; dup {
			return nil, xerrors.New(xerrors.CodeInvalidArgument,
				fmt.Sprintf("duplicate chain id %s", entry.ID))
		}
		r.order = append(r.order, entry.ID)
		r.chains[entry.ID] = entry.Config
	}
	return r, nil
}

// Lookup returns the configuration registered under chainID. Unknown ids yield
// a *ChainNotSupportedError naming every supported chain.
func (r *Registry) Lookup(chainID string) (ChainConfig, error) {
	if r != nil {
		if cfg, ok := r.chains[chainID]; ok {
			return cfg, nil
		}
	}
	return ChainConfig{}, &ChainNotSupportedError{ChainID: chainID, Supported: r.List()}
}

// List returns the registered identifiers in insertion order. The slice is a
// fresh copy on every call.
func (r *Registry) List() []string {
	if r == nil {
		return []string{}
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Contains reports whether chainID is registered.
func (r *Registry) Contains(chainID string) bool {
	if r == nil {
		return false
	}
	_, ok := r.chains[chainID]
	return ok
}

// Len returns the number of registered chains.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// ErrChainNotSupported is matched by every *ChainNotSupportedError through
// errors.Is, and carries the CHAIN_NOT_SUPPORTED code.
var ErrChainNotSupported = xerrors.New(xerrors.CodeChainNotSupported, "chain not supported")

// ChainNotSupportedError is returned by Lookup for an unknown identifier. The
// message lists the supported chains so an agent can correct its request.
type ChainNotSupportedError struct {
	ChainID   string
	Supported []string
}

func (e *ChainNotSupportedError) Error() string {
	return fmt.Sprintf("chain %s not supported. Supported chains: %s", e.ChainID, e.SupportedList())
}

// SupportedList joins the supported identifiers with ", ".
func (e *ChainNotSupportedError) SupportedList() string {
	return strings.Join(e.Supported, ", ")
}

func (e *ChainNotSupportedError) Unwrap() error {
	return ErrChainNotSupported
}
