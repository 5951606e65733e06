package evmdocs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"reflect"
	"testing"

	"OpenMCP-EVM/internal/chains"
	"OpenMCP-EVM/internal/mcp"
	"OpenMCP-EVM/internal/resources"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	host, err := resources.Register(mcp.NewServer(mcp.WithLogger(quiet), mcp.WithAuditLogger(quiet)), nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	registry, err := chains.DefaultCatalog().Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	srv := httptest.NewServer(mcp.NewHTTPServer(":0", host, registry, nil).Handler())
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestListAndReadDocuments(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	list, err := client.ListResources(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[2].URI != SupportedChainsURI {
		t.Fatalf("unexpected resources %+v", list)
	}

	gas, err := client.GasReference(ctx)
	if err != nil {
		t.Fatalf("gas reference: %v", err)
	}
	if gas["ethereum"].Average != 40 || gas["zetachain"].VeryHigh != 0.2 {
		t.Fatalf("unexpected gas reference %+v", gas)
	}

	explorers, err := client.BlockExplorers(ctx)
	if err != nil {
		t.Fatalf("block explorers: %v", err)
	}
	want := map[string]string{
		"ethereum":  "https://etherscan.io",
		"base":      "https://basescan.org",
		"zetachain": "https://explorer.zetachain.com",
	}
	if !reflect.DeepEqual(explorers, want) {
		t.Fatalf("unexpected explorers %v", explorers)
	}

	supported, err := client.SupportedChains(ctx)
	if err != nil {
		t.Fatalf("supported chains: %v", err)
	}
	if got := supported["zetachain"]; got != (ChainInfo{Network: "zetachain-mainnet", Name: "ZetaChain", Symbol: "ZETA", Decimals: 18}) {
		t.Fatalf("unexpected zetachain entry %+v", got)
	}
}

func TestReadUnknownResource(t *testing.T) {
	client := newTestClient(t)
	_, err := client.ReadResource(context.Background(), "evm://docs/missing")
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) || rpcErr.Code != -32002 {
		t.Fatalf("expected resource not found rpc error, got %v", err)
	}
}

func TestChainLookup(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	ids, err := client.Chains(ctx)
	if err != nil {
		t.Fatalf("chains: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"zetachain"}) {
		t.Fatalf("unexpected ids %v", ids)
	}

	zeta, err := client.Chain(ctx, "zetachain")
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if zeta.RPC != "https://zetachain-evm.blockpi.network:443/v1/rpc/public" {
		t.Fatalf("unexpected rpc %q", zeta.RPC)
	}

	_, err = client.Chain(ctx, "polygon")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Code != "CHAIN_NOT_SUPPORTED" || !reflect.DeepEqual(apiErr.Supported, []string{"zetachain"}) {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}
