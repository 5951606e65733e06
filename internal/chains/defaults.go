package chains

// ZetaChainRPC is the public ZetaChain EVM endpoint,
// see https://www.zetachain.com/docs/reference/network/api/.
const ZetaChainRPC = "https://zetachain-evm.blockpi.network:443/v1/rpc/public"

func defaultEntries() []Entry {
	return []Entry{
		{
			ID: "ethereum",
			Config: ChainConfig{
				Network:  "mainnet",
				Name:     "Ethereum",
				Symbol:   "ETH",
				Decimals: 18,
			},
			Gas:      &GasBand{Low: 20, Average: 40, High: 100, VeryHigh: 200},
			Explorer: "https://etherscan.io",
		},
		{
			ID: "base",
			Config: ChainConfig{
				Network:  "base-mainnet",
				Name:     "Base",
				Symbol:   "ETH",
				Decimals: 18,
			},
			Gas:      &GasBand{Low: 0.05, Average: 0.1, High: 0.3, VeryHigh: 0.5},
			Explorer: "https://basescan.org",
		},
		{
			ID: "zetachain",
			Config: ChainConfig{
				Network:  "zetachain-mainnet",
				RPC:      ZetaChainRPC,
				Name:     "ZetaChain",
				Symbol:   "ZETA",
				Decimals: 18,
			},
			Gas:      &GasBand{Low: 0.01, Average: 0.05, High: 0.1, VeryHigh: 0.2},
			Explorer: "https://explorer.zetachain.com",
		},
	}
}

// DefaultCatalog returns the built-in chain table. Only zetachain ships with
// an RPC endpoint; ethereum and base are documentation-only until an RPC is
// configured for them.
func DefaultCatalog() Catalog {
	return Catalog{entries: defaultEntries()}
}
