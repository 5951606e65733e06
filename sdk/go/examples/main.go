package main

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"time"

	"OpenMCP-EVM/internal/chains"
	"OpenMCP-EVM/internal/mcp"
	"OpenMCP-EVM/internal/resources"
	"OpenMCP-EVM/sdk/go/evmdocs"
)

func main() {
	host, err := resources.Register(mcp.NewServer(), nil)
	if err != nil {
		panic(err)
	}
	registry, err := chains.DefaultCatalog().Registry()
	if err != nil {
		panic(err)
	}

	srv := httptest.NewServer(mcp.NewHTTPServer(":0", host, registry, nil).Handler())
	defer srv.Close()

	client, err := evmdocs.NewClient(srv.URL, srv.Client())
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	list, err := client.ListResources(ctx)
	if err != nil {
		panic(err)
	}
	for _, res := range list {
		fmt.Printf("resource %s -> %s\n", res.Name, res.URI)
	}

	gas, err := client.GasReference(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Printf("ethereum average gas: %v gwei\n", gas["ethereum"].Average)

	zeta, err := client.Chain(ctx, "zetachain")
	if err != nil {
		panic(err)
	}
	fmt.Printf("zetachain rpc: %s\n", zeta.RPC)

	_, err = client.Chain(ctx, "polygon")
	var apiErr *evmdocs.APIError
	if errors.As(err, &apiErr) {
		fmt.Printf("polygon: %s (supported: %v)\n", apiErr.Message, apiErr.Supported)
	}
}
