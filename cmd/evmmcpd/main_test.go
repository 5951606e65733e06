package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"OpenMCP-EVM/internal/chains"
	"OpenMCP-EVM/internal/config"
	xerrors "OpenMCP-EVM/internal/errors"
	"OpenMCP-EVM/internal/resources"
)

func TestBuildCatalogMergesSources(t *testing.T) {
	dir := t.TempDir()
	defs := filepath.Join(dir, "chains.yaml")
	content := "chains:\n  polygon:\n    network: polygon-mainnet\n    name: Polygon\n    symbol: POL\n"
	if err := os.WriteFile(defs, []byte(content), 0o600); err != nil {
		t.Fatalf("write definitions: %v", err)
	}
	t.Setenv("EVM_RPC_POLYGON", "https://polygon-rpc.com")

	cfg := config.Default(dir)
	cfg.Chains.Definitions = defs

	catalog, err := buildCatalog(cfg)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	if got, want := catalog.IDs(), []string{"ethereum", "base", "zetachain", "polygon"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected catalog ids: got %v want %v", got, want)
	}
	registry, err := buildRegistry(catalog)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if got, want := registry.List(), []string{"zetachain", "polygon"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected registry ids: got %v want %v", got, want)
	}
}

// 随仓库发布的配置必须只提供内置的三条链。
func TestShippedConfigServesBuiltInDocuments(t *testing.T) {
	for _, id := range []string{"ethereum", "base", "zetachain"} {
		t.Setenv(chains.RPCEnvKey(id), "")
	}

	cfg, err := config.Load(filepath.Join("..", "..", "configs", "evmmcp.json"))
	if err != nil {
		t.Fatalf("load shipped config: %v", err)
	}
	catalog, err := buildCatalog(cfg)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	got := resources.NewDocuments(catalog)
	want := resources.DefaultDocuments()
	tables := []struct {
		name      string
		got, want resources.Table
	}{
		{resources.GasReferenceName, got.GasReference, want.GasReference},
		{resources.BlockExplorersName, got.BlockExplorers, want.BlockExplorers},
		{resources.SupportedChainsName, got.SupportedChains, want.SupportedChains},
	}
	for _, tc := range tables {
		if keys := tc.got.Keys(); !reflect.DeepEqual(keys, []string{"ethereum", "base", "zetachain"}) {
			t.Fatalf("%s: unexpected keys %v", tc.name, keys)
		}
		gotText, err := tc.got.Render()
		if err != nil {
			t.Fatalf("%s: render: %v", tc.name, err)
		}
		wantText, err := tc.want.Render()
		if err != nil {
			t.Fatalf("%s: render default: %v", tc.name, err)
		}
		if gotText != wantText {
			t.Fatalf("%s: shipped config changed the document:\n%s\nwant:\n%s", tc.name, gotText, wantText)
		}
	}

	explorers, _ := got.BlockExplorers.Render()
	wantExplorers := `{
  "ethereum": "https://etherscan.io",
  "base": "https://basescan.org",
  "zetachain": "https://explorer.zetachain.com"
}`
	if explorers != wantExplorers {
		t.Fatalf("unexpected block explorers:\n%s", explorers)
	}

	registry, err := buildRegistry(catalog)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if got := registry.List(); !reflect.DeepEqual(got, []string{"zetachain"}) {
		t.Fatalf("unexpected registry ids %v", got)
	}
	_, err = registry.Lookup("polygon")
	if err == nil || err.Error() != "chain polygon not supported. Supported chains: zetachain" {
		t.Fatalf("unexpected lookup error %v", err)
	}
}

func TestBuildCatalogReportsInitializationFailure(t *testing.T) {
	dir := t.TempDir()
	defs := filepath.Join(dir, "chains.yaml")
	if err := os.WriteFile(defs, []byte("chains:\n  broken:\n    network: x\n"), 0o600); err != nil {
		t.Fatalf("write definitions: %v", err)
	}
	cfg := config.Default(dir)
	cfg.Chains.Definitions = defs

	_, err := buildCatalog(cfg)
	if xerrors.CodeOf(err) != xerrors.CodeInitializationFailure {
		t.Fatalf("expected initialization failure, got %v", err)
	}
	if xerrors.SeverityOf(err) != xerrors.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", xerrors.SeverityOf(err))
	}
	if !errors.Is(err, xerrors.New(xerrors.CodeInvalidArgument, "")) {
		t.Fatalf("expected the validation error to stay reachable, got %v", err)
	}
	coded, _ := xerrors.From(err)
	if coded.Metadata()["path"] != defs {
		t.Fatalf("expected definitions path in metadata, got %v", coded.Metadata())
	}
}
