package resources

import (
	"reflect"
	"testing"

	"OpenMCP-EVM/internal/chains"
)

func TestTableRenderKeepsOrder(t *testing.T) {
	table := Table{
		{Key: "zeta", Value: 1},
		{Key: "alpha", Value: Table{{Key: "b", Value: "x&y"}, {Key: "a", Value: 0.05}}},
	}
	got, err := table.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{
  "zeta": 1,
  "alpha": {
    "b": "x&y",
    "a": 0.05
  }
}`
	if got != want {
		t.Fatalf("unexpected render:\n%s\nwant:\n%s", got, want)
	}
}

func TestNewDocumentsSkipsMissingData(t *testing.T) {
	catalog, err := chains.NewCatalog(
		chains.Entry{
			ID:     "docs-only",
			Config: chains.ChainConfig{Network: "n", Name: "N", Symbol: "N", Decimals: 6},
		},
		chains.Entry{
			ID:       "full",
			Config:   chains.ChainConfig{Network: "f", RPC: "https://rpc", Name: "F", Symbol: "F", Decimals: 18},
			Gas:      &chains.GasBand{Low: 1, Average: 2, High: 3, VeryHigh: 4},
			Explorer: "https://scan",
		},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	docs := NewDocuments(catalog)

	if got := docs.GasReference.Keys(); !reflect.DeepEqual(got, []string{"full"}) {
		t.Fatalf("unexpected gas keys %v", got)
	}
	if got := docs.BlockExplorers.Keys(); !reflect.DeepEqual(got, []string{"full"}) {
		t.Fatalf("unexpected explorer keys %v", got)
	}
	if got := docs.SupportedChains.Keys(); !reflect.DeepEqual(got, []string{"docs-only", "full"}) {
		t.Fatalf("unexpected supported keys %v", got)
	}
	value, ok := docs.SupportedChains.Get("full")
	if !ok {
		t.Fatal("full chain missing")
	}
	if cfg := value.(chains.ChainConfig); cfg.RPC != "" {
		t.Fatalf("supported chains must not expose rpc, got %q", cfg.RPC)
	}
}
