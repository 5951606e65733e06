package resources

import "OpenMCP-EVM/internal/chains"

// Documents holds the three reference tables served to agents. All of them are
// projections of a single chains.Catalog.
type Documents struct {
	GasReference    Table
	BlockExplorers  Table
	SupportedChains Table
}

// NewDocuments derives the reference tables from catalog. Chains without a gas
// band or explorer URL are left out of the matching table; the supported-chains
// table never carries RPC endpoints.
func NewDocuments(catalog chains.Catalog) *Documents {
	docs := &Documents{
		GasReference:    Table{},
		BlockExplorers:  Table{},
		SupportedChains: Table{},
	}
	for _, entry := range catalog.Entries() {
		if entry.Gas != nil {
			docs.GasReference = append(docs.GasReference, Field{Key: entry.ID, Value: *entry.Gas})
		}
		if entry.Explorer != "" {
			docs.BlockExplorers = append(docs.BlockExplorers, Field{Key: entry.ID, Value: entry.Explorer})
		}
		info := entry.Config
		info.RPC = ""
		docs.SupportedChains = append(docs.SupportedChains, Field{Key: entry.ID, Value: info})
	}
	return docs
}

// DefaultDocuments builds the tables from chains.DefaultCatalog.
func DefaultDocuments() *Documents {
	return NewDocuments(chains.DefaultCatalog())
}
