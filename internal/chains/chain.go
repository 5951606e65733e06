package chains

import (
	"fmt"
	"strings"

	xerrors "OpenMCP-EVM/internal/errors"
)

// ChainConfig describes one supported network.
type ChainConfig struct {
	Network  string `json:"network"`
	RPC      string `json:"rpc,omitempty"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Entry is a single row of the catalog. Gas and Explorer are optional; chains
// without them are left out of the corresponding reference document.
type Entry struct {
	ID       string
	Config   ChainConfig
	Gas      *GasBand
	Explorer string
}

// HasRPC reports whether the entry can be served by the registry.
func (e Entry) HasRPC() bool {
	return strings.TrimSpace(e.Config.RPC) != ""
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return xerrors.New(xerrors.CodeInvalidArgument, "chain id cannot be empty")
	}
	cfg := e.Config
	for _, f := range []struct{ field, value string }{
		{"network", cfg.Network},
		{"name", cfg.Name},
		{"symbol", cfg.Symbol},
	} {
		if field := f.field; strings.TrimSpace(f.value) == "" {
			return xerrors.New(xerrors.CodeInvalidArgument,
				fmt.Sprintf("chain %s: %s cannot be empty", e.ID, field),
				xerrors.WithMetadata("chain", e.ID), xerrors.WithMetadata("field", field))
		}
	}
	if cfg.Decimals < 0 {
		return xerrors.New(xerrors.CodeInvalidArgument,
			fmt.Sprintf("chain %s: decimals must be non-negative, got %d", e.ID, cfg.Decimals),
			xerrors.WithMetadata("chain", e.ID))
	}
	if e.Gas != nil {
		if err := e.Gas.validate(); err != nil {
			return xerrors.Wrap(xerrors.CodeInvalidArgument, err, "chain "+e.ID)
		}
	}
	return nil
}
