package chains

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is one chain in a YAML chain file:
//
//	chains:
//	  polygon:
//	    network: polygon-mainnet
//	    rpc_url: https://polygon-rpc.com
//	    name: Polygon
//	    symbol: POL
//	    decimals: 18
//	    explorer_url: https://polygonscan.com
//	    gas: {low: 30, average: 50, high: 100, very_high: 200}
type Definition struct {
	Network     string   `yaml:"network"`
	RPCURL      string   `yaml:"rpc_url"`
	Name        string   `yaml:"name"`
	Symbol      string   `yaml:"symbol"`
	Decimals    *int     `yaml:"decimals"`
	ExplorerURL string   `yaml:"explorer_url"`
	Gas         *GasBand `yaml:"gas"`
}

type definitionsFile struct {
	Chains yaml.Node `yaml:"chains"`
}

const defaultDecimals = 18

// LoadDefinitions parses a YAML chain file into a catalog, keeping the order
// in which chains are declared. An empty path yields an empty catalog.
func LoadDefinitions(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Catalog{}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("读取链配置失败: %w", err)
	}
	return ParseDefinitions(content)
}

// ParseDefinitions decodes the YAML document produced by LoadDefinitions.
func ParseDefinitions(content []byte) (Catalog, error) {
	var file definitionsFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return Catalog{}, fmt.Errorf("解析链配置失败: %w", err)
	}

	node := &file.Chains
	if node.Kind == 0 {
		return Catalog{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return Catalog{}, fmt.Errorf("解析链配置失败: line %d: chains must be a mapping", node.Line)
	}

	entries := make([]Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		id := strings.TrimSpace(node.Content[i].Value)
		var def Definition
		if err := node.Content[i+1].Decode(&def); err != nil {
			return Catalog{}, fmt.Errorf("解析链 %s 失败: %w", id, err)
		}
		entries = append(entries, def.entry(id))
	}
	return NewCatalog(entries...)
}

func (d Definition) entry(id string) Entry {
	decimals := defaultDecimals
	if d.Decimals != nil {
		decimals = *d.Decimals
	}
	return Entry{
		ID: id,
		Config: ChainConfig{
			Network:  strings.TrimSpace(d.Network),
			RPC:      strings.TrimSpace(d.RPCURL),
			Name:     strings.TrimSpace(d.Name),
			Symbol:   strings.TrimSpace(d.Symbol),
			Decimals: decimals,
		},
		Gas:      d.Gas,
		Explorer: strings.TrimSpace(d.ExplorerURL),
	}
}
