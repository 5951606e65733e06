// Package chains holds the canonical table of EVM networks known to the
// process and the immutable registry of chains that have an RPC endpoint.
// The reference documents served to agents are projections of the same
// catalog, so registry and documentation cannot drift apart.
package chains
