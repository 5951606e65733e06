package chains

import (
	"fmt"
	"os"
	"strings"

	xerrors "OpenMCP-EVM/internal/errors"
)

// Catalog is the ordered, canonical table of chains. A Catalog value is never
// mutated in place; every transformation returns a copy.
type Catalog struct {
	entries []Entry
}

// NewCatalog validates entries and keeps them in the given order.
func NewCatalog(entries ...Entry) (Catalog, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if err := entry.validate(); err != nil {
			return Catalog{}, err
		}
		if _, dup := seen[entry.ID]; dup {
			return Catalog{}, xerrors.New(xerrors.CodeInvalidArgument,
				fmt.Sprintf("duplicate chain id %s", entry.ID))
		}
		seen[entry.ID] = struct{}{}
		out = append(out, cloneEntry(entry))
	}
	return Catalog{entries: out}, nil
}

// Len returns the number of chains in the catalog.
func (c Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the catalog rows in declaration order.
func (c Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, entry := range c.entries {
		out[i] = cloneEntry(entry)
	}
	return out
}

// IDs lists chain identifiers in declaration order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, entry := range c.entries {
		ids[i] = entry.ID
	}
	return ids
}

// Get returns the entry for id.
func (c Catalog) Get(id string) (Entry, bool) {
	for _, entry := range c.entries {
		if entry.ID == id {
			return cloneEntry(entry), true
		}
	}
	return Entry{}, false
}

// Merge overlays other on top of c. Known ids are replaced in place, new ids
// are appended in the order other declares them.
func (c Catalog) Merge(other Catalog) Catalog {
	merged := c.Entries()
	index := make(map[string]int, len(merged))
	for i, entry := range merged {
		index[entry.ID] = i
	}
	for _, entry := range other.entries {
		if i, ok := index[entry.ID]; ok {
			merged[i] = cloneEntry(entry)
			continue
		}
		index[entry.ID] = len(merged)
		merged = append(merged, cloneEntry(entry))
	}
	return Catalog{entries: merged}
}

// RPCEnvKey returns the environment variable consulted for a chain's RPC URL,
// e.g. EVM_RPC_ZETACHAIN.
func RPCEnvKey(id string) string {
	key := strings.ToUpper(strings.TrimSpace(id))
	key = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(key)
	return "EVM_RPC_" + key
}

// WithRPCOverrides sets the RPC endpoint of every chain whose RPCEnvKey is
// defined and non-empty. A nil lookup uses os.LookupEnv.
func (c Catalog) WithRPCOverrides(lookup func(string) (string, bool)) Catalog {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	out := c.Entries()
	for i := range out {
		value, ok := lookup(RPCEnvKey(out[i].ID))
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		out[i].Config.RPC = strings.TrimSpace(value)
	}
	return Catalog{entries: out}
}

// Registry builds the lookup registry from every entry that has an RPC
// endpoint, preserving catalog order.
func (c Catalog) Registry() (*Registry, error) {
	served := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		if entry.HasRPC() {
			served = append(served, entry)
		}
	}
	return New(served...)
}

func cloneEntry(e Entry) Entry {
	if e.Gas != nil {
		band := *e.Gas
		e.Gas = &band
	}
	return e
}
